// Package hazards owns every live hazard instance: spawning, the staged state
// transition pipeline, player interaction rules, per-turn autonomous actions,
// movement between rooms and collisions.
package hazards

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"

	"dreadhall/pkg/engine/world"
	"dreadhall/pkg/game/catalog"
	"dreadhall/pkg/game/entities"
)

// Spawn sources
const (
	SourceLevelSeed   = "level_seed"
	SourceTrigger     = "trigger"
	SourceEscalation  = "escalation"
	SourceInteraction = "interaction"
)

const defaultPlayerSeekChance = 0.2

// States a player is considered to have got past
var safeStates = mapset.Of("inactive", "resolved", "evaded", "neutralized", "defused")

// States that no longer react to the player
var inertStates = mapset.Of("empty", "destroyed", "removed")

// TurnHook runs at the start of every ProcessTurn. Its result is merged into
// the turn's result ahead of anything the hazards themselves produce.
type TurnHook func(ctx context.Context) Result

// Registry owns the live hazard instances
type Registry struct {
	catalog   *catalog.Catalog
	conductor Conductor
	rng       *rand.Rand
	log       *slog.Logger

	hazards map[string]*entities.HazardInstance
	order   []string

	hooks            []TurnHook
	playerSeekChance float64
}

// Option configures a Registry
type Option func(*Registry)

// WithRand sets the random source used for chance rolls, ids and name choices
func WithRand(rng *rand.Rand) Option {
	return func(r *Registry) { r.rng = rng }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// WithPlayerSeekChance sets the seek-player chance for movers that do not declare one
func WithPlayerSeekChance(p float64) Option {
	return func(r *Registry) { r.playerSeekChance = p }
}

// New creates an empty registry
func New(cat *catalog.Catalog, conductor Conductor, opts ...Option) *Registry {
	r := &Registry{
		catalog:          cat,
		conductor:        conductor,
		hazards:          make(map[string]*entities.HazardInstance),
		playerSeekChance: defaultPlayerSeekChance,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	return r
}

// Catalog returns the catalog the registry was built with
func (r *Registry) Catalog() *catalog.Catalog {
	return r.catalog
}

// OnTurn registers a hook run at the start of every turn
func (r *Registry) OnTurn(h TurnHook) {
	r.hooks = append(r.hooks, h)
}

// SpawnOptions tune a spawn
type SpawnOptions struct {
	InitialState string // Overrides the definition's initial state when it names a known state
	Target       string // Object the hazard binds to
	Source       string
}

// InitializeForLevel clears every instance and seeds the level's rooms by
// their configured chances. Returns the number of hazards seeded.
func (r *Registry) InitializeForLevel(ctx context.Context, levelID int) int {
	r.hazards = make(map[string]*entities.HazardInstance)
	r.order = nil

	plan, ok := r.catalog.Level(levelID)
	if !ok {
		r.log.WarnContext(ctx, "no plan for level", "level", levelID)
		return 0
	}
	seeded := 0
	for _, room := range plan.Rooms {
		for _, seed := range room.Hazards {
			if _, ok := r.catalog.Hazard(seed.Type); !ok {
				r.log.WarnContext(ctx, "seed skipped", "room", room.Name, "type", seed.Type, "error", ErrUnknownHazardType)
				continue
			}
			if r.rng.Float64() > seed.Probability() {
				continue
			}
			if _, ok := r.Spawn(ctx, seed.Type, room.Name, SpawnOptions{Source: SourceLevelSeed}); ok {
				seeded++
			}
		}
	}
	r.log.InfoContext(ctx, "hazards initialised", "level", levelID, "seeded", seeded)
	return seeded
}

// Spawn creates a hazard of type typ in room and places its bound objects.
// It does not check for an existing instance of the same type in the room.
func (r *Registry) Spawn(ctx context.Context, typ, room string, opts SpawnOptions) (string, bool) {
	def, ok := r.catalog.Hazard(typ)
	if !ok {
		r.log.WarnContext(ctx, "spawn skipped", "type", typ, "room", room, "error", ErrUnknownHazardType)
		return "", false
	}
	state := def.InitialState
	if opts.InitialState != "" {
		if def.HasState(opts.InitialState) {
			state = opts.InitialState
		} else {
			r.log.WarnContext(ctx, "initial state override ignored", "type", typ, "state", opts.InitialState, "error", ErrUnknownState)
		}
	}
	h := &entities.HazardInstance{
		ID:       r.newID(typ),
		Type:     typ,
		Name:     def.Name,
		State:    state,
		Location: room,
		Target:   opts.Target,
		Source:   opts.Source,
	}
	r.hazards[h.ID] = h
	r.order = append(r.order, h.ID)
	r.spawnEntities(h, def)
	r.log.DebugContext(ctx, "hazard spawned", "id", h.ID, "room", room, "state", state, "source", opts.Source)
	return h.ID, true
}

// findOrCreate returns the first instance of typ in room, creating one at
// state if there is none. Only cross-hazard triggers use this path, so only
// they enforce one instance of a type per room.
func (r *Registry) findOrCreate(ctx context.Context, typ, room, state string) (string, bool) {
	if id, ok := r.InstanceIDByType(room, typ); ok {
		return id, true
	}
	return r.Spawn(ctx, typ, room, SpawnOptions{InitialState: state, Source: SourceTrigger})
}

func (r *Registry) newID(typ string) string {
	for {
		u, err := uuid.NewRandomFromReader(r.rng)
		if err != nil {
			u = uuid.New()
		}
		id := typ + "#" + strings.ReplaceAll(u.String(), "-", "")[:8]
		if _, taken := r.hazards[id]; !taken {
			return id
		}
	}
}

// spawnEntities places the hazard's bound objects in its room, reusing
// display names chosen earlier so a roaming hazard keeps its identity.
func (r *Registry) spawnEntities(h *entities.HazardInstance, def *catalog.HazardDefinition) {
	if r.conductor == nil || len(def.SpawnEntities) == 0 {
		return
	}
	lvl := r.conductor.World()
	if lvl == nil {
		return
	}
	room := lvl.Room(h.Location)
	if room == nil {
		return
	}
	if h.Entities == nil {
		h.Entities = make(map[string]string, len(def.SpawnEntities))
	}

	names := mapset.New[string]()
	keys := mapset.New[string]()
	for _, it := range room.Items {
		names.Put(world.Normalize(it.Name))
		if it.Key != "" {
			keys.Put(strings.ToLower(it.Key))
		}
	}

	var desc string
	if s, ok := def.State(h.State); ok {
		desc = s.Description
	}
	for _, key := range def.SpawnEntities {
		k := key.KeyName()
		display, ok := h.Entities[k]
		if !ok {
			display = r.chooseDisplayName(key, def)
			h.Entities[k] = display
		}
		if names.Has(world.Normalize(display)) || keys.Has(strings.ToLower(k)) {
			continue
		}
		it := r.catalog.NewItem(k)
		it.Name = display
		it.HazardType = h.Type
		it.Description = strings.ReplaceAll(desc, "{object_name}", display)
		room.AddItem(it)
		names.Put(world.Normalize(display))
		keys.Put(strings.ToLower(k))
	}
}

// removeEntities takes the hazard's objects out of a room it has left, unless
// another hazard of the same type still lives there.
func (r *Registry) removeEntities(h *entities.HazardInstance, roomName string) {
	if r.conductor == nil || r.conductor.World() == nil {
		return
	}
	if _, ok := r.InstanceIDByType(roomName, h.Type); ok {
		return
	}
	room := r.conductor.World().Room(roomName)
	if room == nil {
		return
	}
	kept := room.Items[:0]
	for _, it := range room.Items {
		if _, bound := h.Entities[it.Key]; bound && it.HazardType == h.Type {
			continue
		}
		kept = append(kept, it)
	}
	room.Items = kept
}

// chooseDisplayName picks a name for an entity from the catalog item's name
// and aliases, the key's own aliases, and any object_name_options sharing a
// word with the key.
func (r *Registry) chooseDisplayName(key entities.EntityKey, def *catalog.HazardDefinition) string {
	k := key.KeyName()
	var candidates []string
	if it, ok := r.catalog.Item(k); ok {
		base := it.Name
		if base == "" {
			base = k
		}
		candidates = append(candidates, base)
		candidates = append(candidates, it.Aliases...)
	} else {
		candidates = append(candidates, strings.ReplaceAll(k, "_", " "))
	}
	candidates = append(candidates, key.KeyAliases()...)

	tokens := strings.Fields(world.Normalize(k))
	for _, opt := range def.ObjectNameOptions {
		o := strings.ToLower(opt)
		for _, tok := range tokens {
			if tok != "" && strings.Contains(o, tok) {
				candidates = append(candidates, opt)
				break
			}
		}
	}

	seen := mapset.New[string]()
	filtered := candidates[:0]
	for _, c := range candidates {
		if c != "" && !seen.Has(c) {
			seen.Put(c)
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return k
	}
	return filtered[r.rng.Intn(len(filtered))]
}

// ids returns instance ids in spawn order
func (r *Registry) ids() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Hazard returns a copy of the instance with the given id
func (r *Registry) Hazard(id string) (entities.HazardInstance, bool) {
	h, ok := r.hazards[id]
	if !ok {
		return entities.HazardInstance{}, false
	}
	return h.Clone(), true
}

// Count returns the number of live instances
func (r *Registry) Count() int {
	return len(r.hazards)
}

// ActiveHazardsForRoom returns the types of every hazard in room, in spawn order
func (r *Registry) ActiveHazardsForRoom(room string) []string {
	var out []string
	for _, id := range r.order {
		if h := r.hazards[id]; h.Location == room {
			out = append(out, h.Type)
		}
	}
	return out
}

// HazardState returns the state of the first hazard of type typ in room
func (r *Registry) HazardState(typ, room string) (string, bool) {
	if id, ok := r.InstanceIDByType(room, typ); ok {
		return r.hazards[id].State, true
	}
	return "", false
}

// HazardsInLocation returns copies of every instance in room
func (r *Registry) HazardsInLocation(room string) []entities.HazardInstance {
	var out []entities.HazardInstance
	for _, id := range r.order {
		if h := r.hazards[id]; h.Location == room {
			out = append(out, h.Clone())
		}
	}
	return out
}

// InstanceIDByType returns the id of the first instance of typ in room
func (r *Registry) InstanceIDByType(room, typ string) (string, bool) {
	for _, id := range r.order {
		if h := r.hazards[id]; h.Location == room && h.Type == typ {
			return id, true
		}
	}
	return "", false
}

// IsTerminal reports whether the hazard sits in a terminal state
func (r *Registry) IsTerminal(id string) bool {
	h, ok := r.hazards[id]
	if !ok {
		return false
	}
	s, ok := r.stateOf(h)
	return ok && s.IsTerminal()
}

// Describe returns the description of the hazard's current state with its
// object name filled in
func (r *Registry) Describe(id string) (string, bool) {
	h, ok := r.hazards[id]
	if !ok {
		return "", false
	}
	s, ok := r.stateOf(h)
	if !ok || s.Description == "" {
		return "", false
	}
	return r.objectName(s.Description, h), true
}

func (r *Registry) definition(h *entities.HazardInstance) *catalog.HazardDefinition {
	def, _ := r.catalog.Hazard(h.Type)
	return def
}

func (r *Registry) stateOf(h *entities.HazardInstance) (*catalog.StateDef, bool) {
	def := r.definition(h)
	if def == nil {
		return nil, false
	}
	return def.State(h.State)
}

// displayName is the name templates refer to as {object_name}: the target
// override, else the first bound object, else the hazard's own name.
func (r *Registry) displayName(h *entities.HazardInstance) string {
	if h.Target != "" {
		return h.Target
	}
	if def := r.definition(h); def != nil {
		for _, k := range def.SpawnEntities {
			if name := h.Entities[k.KeyName()]; name != "" {
				return name
			}
		}
	}
	return h.DisplayName()
}

func (r *Registry) objectName(tmpl string, h *entities.HazardInstance) string {
	return strings.ReplaceAll(tmpl, "{object_name}", r.displayName(h))
}
