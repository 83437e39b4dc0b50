package task

import (
	"fmt"
	"image"
	"strings"
)

const (
	Row Generation = iota
	Column
	Block
)

// DefaultSize is the edge of a Block task and the thickness of Row and Column tasks.
const DefaultSize = 64

type Generation int

func (g Generation) String() string {
	if g < Row || g > Block {
		return fmt.Sprintf("Generation(%d)", int(g))
	}
	return []string{
		"Row", "Column", "Block",
	}[g]
}

func ParseGeneration(name string) (Generation, error) {
	for g := Row; g <= Block; g++ {
		if strings.EqualFold(g.String(), name) {
			return g, nil
		}
	}
	return Row, fmt.Errorf("unknown generation type: %q", name)
}

// Task is one piece of a frame handed to a worker.
type Task struct {
	ID     int
	Bounds image.Rectangle
}

func (t *Task) String() string {
	output := "{Task "
	output += fmt.Sprintf("ID: %d ", t.ID)
	output += fmt.Sprintf("Bounds: %v}", t.Bounds)
	return output
}

// Split cuts bounds into tasks that together cover every pixel exactly once. Row tasks span the full width and size
// rows, Column tasks span the full height and size columns, Block tasks are size x size tiles clipped to bounds.
func Split(bounds image.Rectangle, generation Generation, size int) []Task {
	if bounds.Empty() {
		return nil
	}
	if size < 1 {
		size = 1
	}

	stepX, stepY := size, size
	switch generation {
	case Row:
		stepX = bounds.Dx()
	case Column:
		stepY = bounds.Dy()
	}

	tasks := make([]Task, 0, ((bounds.Dx()+stepX-1)/stepX)*((bounds.Dy()+stepY-1)/stepY))
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			r := image.Rect(x, y, x+stepX, y+stepY).Intersect(bounds)
			tasks = append(tasks, Task{ID: len(tasks), Bounds: r})
		}
	}
	return tasks
}
