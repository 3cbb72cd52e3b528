package debugui

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/plus3/keyfall/ecs"
)

// Columns of the archetype table, in display order.
const (
	ColumnArchetypeID = iota
	ColumnComponents
	ColumnComponentCount
	ColumnEntityCount
)

type ArchetypeRow struct {
	ID             uint32
	Components     string
	ComponentCount int
	EntityCount    int
}

// ArchetypeRows flattens stats into table rows sorted by column.
func ArchetypeRows(stats ecs.StorageStats, column int, ascending bool) []ArchetypeRow {
	rows := make([]ArchetypeRow, 0, len(stats.ArchetypeBreakdown))
	for _, arch := range stats.ArchetypeBreakdown {
		rows = append(rows, ArchetypeRow{
			ID:             arch.ID,
			Components:     strings.Join(arch.ComponentTypes, ", "),
			ComponentCount: len(arch.ComponentTypes),
			EntityCount:    arch.EntityCount,
		})
	}

	slices.SortStableFunc(rows, func(a, b ArchetypeRow) int {
		var c int
		switch column {
		case ColumnArchetypeID:
			c = cmp.Compare(a.ID, b.ID)
		case ColumnComponents:
			c = cmp.Compare(a.Components, b.Components)
		case ColumnComponentCount:
			c = cmp.Compare(a.ComponentCount, b.ComponentCount)
		default:
			c = cmp.Compare(a.EntityCount, b.EntityCount)
		}
		if !ascending {
			return -c
		}
		return c
	})
	return rows
}

// FrameHistory is a fixed-size ring of frame times in milliseconds.
type FrameHistory struct {
	samples []float32
	next    int
	filled  bool
}

func NewFrameHistory(size int) *FrameHistory {
	return &FrameHistory{samples: make([]float32, max(size, 1))}
}

func (h *FrameHistory) Add(ms float32) {
	h.samples[h.next] = ms
	h.next = (h.next + 1) % len(h.samples)
	if h.next == 0 {
		h.filled = true
	}
}

// Samples returns the recorded frame times, oldest first.
func (h *FrameHistory) Samples() []float32 {
	if !h.filled {
		return append([]float32(nil), h.samples[:h.next]...)
	}
	return append(append([]float32(nil), h.samples[h.next:]...), h.samples[:h.next]...)
}

func (h *FrameHistory) Average() float32 {
	samples := h.Samples()
	if len(samples) == 0 {
		return 0
	}
	var total float32
	for _, s := range samples {
		total += s
	}
	return total / float32(len(samples))
}

// FieldLine is one row of a component dump.
type FieldLine struct {
	Depth int
	Name  string
	Value string
}

var stringerType = reflect.TypeFor[fmt.Stringer]()

type structField struct {
	name      string
	index     int
	isPointer bool
	isStruct  bool
}

// fieldCache maps a struct type to its []structField. Panels describe the
// same few component types every frame.
var fieldCache sync.Map

func exportedFields(t reflect.Type) []structField {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]structField)
	}

	var fields []structField
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		fieldType := field.Type
		isPointer := fieldType.Kind() == reflect.Ptr
		if isPointer {
			fieldType = fieldType.Elem()
		}
		fields = append(fields, structField{
			name:      field.Name,
			index:     i,
			isPointer: isPointer,
			isStruct:  fieldType.Kind() == reflect.Struct,
		})
	}

	actual, _ := fieldCache.LoadOrStore(t, fields)
	return actual.([]structField)
}

// DescribeComponent lists the exported fields of component, descending into
// nested structs. component may be a value or a pointer.
func DescribeComponent(component any) []FieldLine {
	val := reflect.ValueOf(component)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return []FieldLine{{Name: val.Type().Name(), Value: formatValue(val)}}
	}

	var lines []FieldLine
	describeStruct(val, 0, &lines)
	return lines
}

func describeStruct(val reflect.Value, depth int, lines *[]FieldLine) {
	for _, field := range exportedFields(val.Type()) {
		fieldVal := val.Field(field.index)
		if field.isPointer {
			if fieldVal.IsNil() {
				*lines = append(*lines, FieldLine{Depth: depth, Name: field.name, Value: "nil"})
				continue
			}
			fieldVal = fieldVal.Elem()
		}

		if field.isStruct && !hasString(fieldVal) {
			*lines = append(*lines, FieldLine{Depth: depth, Name: field.name})
			describeStruct(fieldVal, depth+1, lines)
			continue
		}
		*lines = append(*lines, FieldLine{Depth: depth, Name: field.name, Value: formatValue(fieldVal)})
	}
}

func hasString(val reflect.Value) bool {
	return val.Type().Implements(stringerType) ||
		(val.CanAddr() && val.Addr().Type().Implements(stringerType))
}

func formatValue(val reflect.Value) string {
	switch {
	case val.Type().Implements(stringerType) && val.CanInterface():
		return val.Interface().(fmt.Stringer).String()
	case val.CanAddr() && val.Addr().Type().Implements(stringerType):
		return val.Addr().Interface().(fmt.Stringer).String()
	}

	switch val.Kind() {
	case reflect.Slice, reflect.Array:
		return fmt.Sprintf("[%d items]", val.Len())
	case reflect.Map:
		return fmt.Sprintf("map[%d items]", val.Len())
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%.2f", val.Float())
	case reflect.Func:
		if val.IsNil() {
			return "nil"
		}
		return "func"
	case reflect.Struct:
		return val.Type().String()
	}
	if val.CanInterface() {
		return fmt.Sprint(val.Interface())
	}
	return "?"
}
