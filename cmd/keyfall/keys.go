package main

import "github.com/hajimehoshi/ebiten/v2"

var keyLetters = map[ebiten.Key]rune{
	ebiten.KeyA: 'a', ebiten.KeyB: 'b', ebiten.KeyC: 'c', ebiten.KeyD: 'd',
	ebiten.KeyE: 'e', ebiten.KeyF: 'f', ebiten.KeyG: 'g', ebiten.KeyH: 'h',
	ebiten.KeyI: 'i', ebiten.KeyJ: 'j', ebiten.KeyK: 'k', ebiten.KeyL: 'l',
	ebiten.KeyM: 'm', ebiten.KeyN: 'n', ebiten.KeyO: 'o', ebiten.KeyP: 'p',
	ebiten.KeyQ: 'q', ebiten.KeyR: 'r', ebiten.KeyS: 's', ebiten.KeyT: 't',
	ebiten.KeyU: 'u', ebiten.KeyV: 'v', ebiten.KeyW: 'w', ebiten.KeyX: 'x',
	ebiten.KeyY: 'y', ebiten.KeyZ: 'z',
}

func letterForKey(key ebiten.Key) (rune, bool) {
	r, ok := keyLetters[key]
	return r, ok
}

// appendLetters appends the letters for keys, skipping non-letter keys.
func appendLetters(dst []rune, keys []ebiten.Key) []rune {
	for _, key := range keys {
		if r, ok := letterForKey(key); ok {
			dst = append(dst, r)
		}
	}
	return dst
}
