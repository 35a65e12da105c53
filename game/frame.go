package game

import "github.com/pthm-cable/beehive/components"

// EntityKind tags a frame entity for the renderer.
type EntityKind string

const (
	KindPlayer EntityKind = "player"
	KindBee    EntityKind = "bee"
	KindFlower EntityKind = "flower"
	KindHive   EntityKind = "hive"
)

// EntityFrame is one entity's transform and load.
// IDs are only unique within a kind: flower IDs are flower indices, agent
// IDs are agent IDs and the hive is always 0. Key entities on (Kind, ID).
type EntityFrame struct {
	ID       uint32     `json:"id"`
	Kind     EntityKind `json:"kind"`
	X        float32    `json:"x"`
	Y        float32    `json:"y"`
	Z        float32    `json:"z"`
	Yaw      float32    `json:"yaw"`
	Radius   float32    `json:"radius"`
	Pollen   float64    `json:"pollen"`
	Capacity float64    `json:"capacity"`
	State    string     `json:"state,omitempty"` // forage bees only
}

// UpgradeFrame is one shop entry as shown to the player.
type UpgradeFrame struct {
	Kind  string  `json:"kind"`
	Name  string  `json:"name"`
	Level int     `json:"level"`
	Cost  float64 `json:"cost"`
	Maxed bool    `json:"maxed"`
}

// Frame is everything a renderer needs for one tick.
type Frame struct {
	Tick           int32          `json:"tick"`
	Paused         bool           `json:"paused"`
	Honey          float64        `json:"honey"`
	StoredPollen   float64        `json:"storedPollen"`
	ConversionRate float64        `json:"conversionRate"`
	Notice         string         `json:"notice,omitempty"`
	Entities       []EntityFrame  `json:"entities"`
	Upgrades       []UpgradeFrame `json:"upgrades"`
}

// Frame builds the render frame for the current state. The returned
// slices are freshly allocated and safe to hand to another goroutine.
func (g *Game) Frame() Frame {
	hive := g.hiveMap.Get(g.hive)
	hivePos := g.posMap.Get(g.hive)

	f := Frame{
		Tick:           g.tick,
		Paused:         g.paused,
		Honey:          hive.Honey.Amount,
		StoredPollen:   hive.Stored.Amount,
		ConversionRate: hive.Stored.Rate,
		Notice:         g.notice,
		Entities:       make([]EntityFrame, 0, 1+len(g.flowers)+g.beeCount+1),
		Upgrades:       make([]UpgradeFrame, 0, len(g.shop.All())),
	}

	f.Entities = append(f.Entities, EntityFrame{
		Kind:   KindHive,
		X:      hivePos.X,
		Y:      hivePos.Y,
		Z:      hivePos.Z,
		Radius: g.bodyMap.Get(g.hive).Radius,
		Pollen: hive.Stored.Amount,
	})

	for i, e := range g.flowers {
		pos := g.posMap.Get(e)
		fl := g.flowerMap.Get(e)
		f.Entities = append(f.Entities, EntityFrame{
			ID:       uint32(i),
			Kind:     KindFlower,
			X:        pos.X,
			Y:        pos.Y,
			Z:        pos.Z,
			Radius:   g.bodyMap.Get(e).Radius,
			Pollen:   fl.Pollen.Amount,
			Capacity: fl.Pollen.Capacity,
		})
	}

	query := g.agentFilter.Query()
	for query.Next() {
		pos, _, rot, body, agent, carrier := query.Get()
		ef := EntityFrame{
			ID:       agent.ID,
			Kind:     KindBee,
			X:        pos.X,
			Y:        pos.Y,
			Z:        pos.Z,
			Yaw:      rot.Yaw,
			Radius:   body.Radius,
			Pollen:   carrier.Pollen.Amount,
			Capacity: carrier.Pollen.Capacity,
		}
		switch agent.Mode {
		case components.ModePlayer:
			ef.Kind = KindPlayer
		case components.ModeForage:
			ef.State = agent.State.String()
		}
		f.Entities = append(f.Entities, ef)
	}

	for _, u := range g.shop.All() {
		f.Upgrades = append(f.Upgrades, UpgradeFrame{
			Kind:  string(u.Kind),
			Name:  u.Name,
			Level: u.Level,
			Cost:  u.Cost,
			Maxed: u.Maxed(),
		})
	}
	return f
}

// publishFrame hands a frame to the sink every frameEvery ticks.
func (g *Game) publishFrame() {
	if g.frames == nil || g.frameEvery <= 0 || g.tick%g.frameEvery != 0 {
		return
	}
	g.frames.Publish(g.Frame())
}
