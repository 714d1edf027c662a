package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCatalog wraps every structural problem found by Validate
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrUnknownLevel is returned for a level with no plan
	ErrUnknownLevel = errors.New("unknown level")
)

// Validate checks references inside each hazard's state graph and the level
// plans. Cross-hazard triggers are not checked here: a malformed trigger is
// skipped at runtime so the rest of the chain still plays.
func (c *Catalog) Validate() error {
	var errs []error
	for _, id := range c.HazardTypes() {
		h := c.Hazards[id]
		if len(h.States) == 0 {
			errs = append(errs, fmt.Errorf("hazard %s: no states", id))
			continue
		}
		if !h.HasState(h.InitialState) {
			errs = append(errs, fmt.Errorf("hazard %s: initial state %q not in state graph", id, h.InitialState))
		}
		for name, s := range h.States {
			for _, ref := range []string{s.NextState, s.NoProjectilesState} {
				if ref != "" && !h.HasState(ref) {
					errs = append(errs, fmt.Errorf("hazard %s state %s: unknown state %q", id, name, ref))
				}
			}
			checks := []*CheckSpec{s.Check}
			if s.Projectiles != nil {
				checks = append(checks, s.Projectiles.Check)
			}
			for _, chk := range checks {
				if chk == nil {
					continue
				}
				for _, ref := range []string{chk.SuccessState, chk.FailureState} {
					if ref != "" && !h.HasState(ref) {
						errs = append(errs, fmt.Errorf("hazard %s state %s: check refers to unknown state %q", id, name, ref))
					}
				}
			}
		}
		for verb, rules := range h.PlayerInteraction {
			for i, r := range rules {
				if next := r.NextState(); next != "" && !h.HasState(next) {
					errs = append(errs, fmt.Errorf("hazard %s rule %s[%d]: unknown state %q", id, verb, i, next))
				}
			}
		}
		for occupant, eff := range h.CollisionEffects {
			if eff.TargetState == "" || occupant == "player" {
				continue
			}
			target, ok := c.Hazards[occupant]
			if ok && !target.HasState(eff.TargetState) {
				errs = append(errs, fmt.Errorf("hazard %s collision with %s: unknown state %q", id, occupant, eff.TargetState))
			}
		}
	}
	for lid, plan := range c.Levels {
		rooms := make(map[string]bool, len(plan.Rooms))
		for _, r := range plan.Rooms {
			rooms[r.Name] = true
		}
		for _, r := range plan.Rooms {
			for _, e := range r.Exits {
				if !rooms[e.To] {
					errs = append(errs, fmt.Errorf("level %d room %s: exit to unknown room %q", lid, r.Name, e.To))
				}
			}
		}
		if plan.Start != "" && !rooms[plan.Start] {
			errs = append(errs, fmt.Errorf("level %d: unknown start room %q", lid, plan.Start))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
	}
	return nil
}
