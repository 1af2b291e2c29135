package ruleset

// Visitor handles one method per Category. Adding a Category adds a method
// here, so every dispatcher fails to compile until it handles it.
type Visitor interface {
	VisitUnknown()
	VisitRecord()
	VisitPet()
	VisitCast()
	VisitCastStartsUsing()
	VisitAction()
	VisitEffect()
	VisitMarker()
	VisitHPRate()
	VisitAdded()
	VisitDialogue()
	VisitStart()
	VisitTimelineStart()
	VisitEnd()
}

// Category is the classification a keyword assigns to a raw line.
// Values are only the package level variables below and compare by identity.
type Category struct {
	name   string
	accept func(Visitor)
}

// Accept calls the Visitor method matching c.
func (c *Category) Accept(v Visitor) {
	c.accept(v)
}

func (c *Category) String() string {
	return c.name
}

var (
	Unknown         = &Category{"Unknown", Visitor.VisitUnknown}
	Record          = &Category{"Record", Visitor.VisitRecord}
	Pet             = &Category{"Pet", Visitor.VisitPet}
	Cast            = &Category{"Cast", Visitor.VisitCast}
	CastStartsUsing = &Category{"CastStartsUsing", Visitor.VisitCastStartsUsing}
	Action          = &Category{"Action", Visitor.VisitAction}
	Effect          = &Category{"Effect", Visitor.VisitEffect}
	Marker          = &Category{"Marker", Visitor.VisitMarker}
	HPRate          = &Category{"HPRate", Visitor.VisitHPRate}
	Added           = &Category{"Added", Visitor.VisitAdded}
	Dialogue        = &Category{"Dialogue", Visitor.VisitDialogue}
	Start           = &Category{"Start", Visitor.VisitStart}
	TimelineStart   = &Category{"TimelineStart", Visitor.VisitTimelineStart}
	End             = &Category{"End", Visitor.VisitEnd}
)

// Categories lists every Category in declaration order.
func Categories() []*Category {
	return []*Category{
		Unknown, Record, Pet, Cast, CastStartsUsing, Action, Effect,
		Marker, HPRate, Added, Dialogue, Start, TimelineStart, End,
	}
}
