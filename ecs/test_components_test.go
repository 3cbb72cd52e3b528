package ecs_test

import "github.com/plus3/keyfall/ecs"

type Letter struct {
	Value rune
}

type Spot struct {
	X, Y float32
}

type Drift struct {
	DX, DY float32
}

type Fuse struct {
	Timer ecs.Timer
}

type Streak struct {
	Count int
	Best  int
}

type Points int32
type Tag string

type Board struct {
	Letters []rune
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Letter](registry)
	ecs.RegisterComponent[Spot](registry)
	ecs.RegisterComponent[Drift](registry)
	ecs.RegisterComponent[Fuse](registry)
	ecs.RegisterComponent[Streak](registry)
	ecs.RegisterComponent[Points](registry)
	ecs.RegisterComponent[Tag](registry)
	ecs.RegisterComponent[Board](registry)
	return registry
}
