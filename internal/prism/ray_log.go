package prism

import (
	"fmt"
	"sort"
	"sync"
)

type Category uint8

const (
	Escape   Category = iota // ray left the scene bounds
	Refract                  // ray refracted into or out of glass
	Reflect                  // ray reflected off a mirror
	TIR                      // total internal reflection (ray did not exit element)
	Overlap                  // ray found two bodies at once
	NoNormal                 // boundary normal lookup failed
	Inside                   // light source sits inside an element
	Limit                    // ray hit a crossing or step limit
)

func (c Category) String() string {
	switch c {
	case Escape:
		return "escape"
	case Refract:
		return "refract"
	case Reflect:
		return "reflect"
	case TIR:
		return "tir"
	case Overlap:
		return "overlap"
	case NoNormal:
		return "no_normal"
	case Inside:
		return "inside"
	case Limit:
		return "limit"
	default:
		return fmt.Sprintf("category(%d)", uint8(c))
	}
}

type RayLog struct {
	Name       string
	Category   Category
	Wavelength Real
	Point      Point // where it happened
	Direction  Angle // direction after the event
	Step       int   // step number along the path
}

type RayLogCache struct {
	mu   sync.Mutex
	rays map[string][]RayLog // map of ray name to logs
}

var cache = &RayLogCache{
	rays: make(map[string][]RayLog),
}

func logRay(name string, category Category, wavelength Real, point Point, direction Angle, step int) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.rays[name] = append(cache.rays[name], RayLog{
		Name:       name,
		Category:   category,
		Wavelength: wavelength,
		Point:      point,
		Direction:  direction,
		Step:       step,
	})
}

// rayCounts returns the number of logs per category.
func rayCounts() map[Category]int {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	out := make(map[Category]int)
	for _, v := range cache.rays {
		for _, l := range v {
			out[l.Category]++
		}
	}
	return out
}

func raysStats() {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	names := make([]string, 0, len(cache.rays))
	for k := range cache.rays {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		v := cache.rays[k]
		fmt.Printf("Ray type %s: %d logs\n", k, len(v))
		//for _, log := range v {
		//	fmt.Printf("  Step %d: λ=%.1f Point=%+v Direction=%.4f°\n", log.Step, log.Wavelength, log.Point, Deg(log.Direction))
		//}
	}
}
