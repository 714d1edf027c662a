// Package levelgen builds playable room graphs from catalog level plans.
package levelgen

import (
	"fmt"

	"dreadhall/pkg/engine/world"
	"dreadhall/pkg/game/catalog"
)

// Build turns the plan for level id into a room graph with its items placed.
// Hazards are not seeded here; the registry does that on InitializeForLevel.
func Build(c *catalog.Catalog, id int) (*world.Level, error) {
	plan, ok := c.Level(id)
	if !ok {
		return nil, fmt.Errorf("level %d: %w", id, catalog.ErrUnknownLevel)
	}
	l := world.NewLevel(id, plan.Name)

	// Add every room first so exits can point forward
	for _, rp := range plan.Rooms {
		l.AddRoom(rp.Name)
	}
	for _, rp := range plan.Rooms {
		r := l.Room(rp.Name)
		for _, ep := range rp.Exits {
			r.Exits = append(r.Exits, &world.Exit{
				Direction: ep.Direction,
				To:        ep.To,
				Locked:    ep.Locked,
				Complex:   ep.Complex,
			})
		}
		for _, key := range rp.Items {
			r.AddItem(c.NewItem(key))
		}
	}
	if plan.Start != "" {
		l.Start = plan.Start
	}
	return l, nil
}

// HidingSpots returns the items in a room that the catalog marks as hiding spots
func HidingSpots(c *catalog.Catalog, r *world.Room) []*world.Item {
	var out []*world.Item
	for _, it := range r.Items {
		if def, ok := c.Item(it.Key); ok && def.Hiding {
			out = append(out, it)
		}
	}
	return out
}
