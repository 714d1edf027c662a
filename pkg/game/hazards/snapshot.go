package hazards

import (
	"fmt"

	"dreadhall/pkg/game/entities"
)

// Snapshot is the serialisable state of the registry
type Snapshot struct {
	Hazards []entities.HazardInstance `yaml:"hazards"`
}

// Snapshot copies every instance in spawn order
func (r *Registry) Snapshot() Snapshot {
	snap := Snapshot{Hazards: make([]entities.HazardInstance, 0, len(r.order))}
	for _, id := range r.order {
		snap.Hazards = append(snap.Hazards, r.hazards[id].Clone())
	}
	return snap
}

// Restore replaces every instance with those of snap. Nothing is replaced if
// an instance names an unknown type or a state outside its graph.
func (r *Registry) Restore(snap Snapshot) error {
	hazards := make(map[string]*entities.HazardInstance, len(snap.Hazards))
	order := make([]string, 0, len(snap.Hazards))
	for _, h := range snap.Hazards {
		def, ok := r.catalog.Hazard(h.Type)
		if !ok {
			return fmt.Errorf("restore %s: %w: %s", h.ID, ErrUnknownHazardType, h.Type)
		}
		if !def.HasState(h.State) {
			return fmt.Errorf("restore %s: %w: %s", h.ID, ErrUnknownState, h.State)
		}
		if _, dup := hazards[h.ID]; dup {
			return fmt.Errorf("restore: duplicate hazard id %s", h.ID)
		}
		c := h.Clone()
		hazards[h.ID] = &c
		order = append(order, h.ID)
	}
	r.hazards = hazards
	r.order = order
	return nil
}
