package widget

import (
	"net/url"
)

// BookingTag is the custom element the booking vendor upgrades.
const BookingTag = "booking-widget"

// idAttr carries the instance identifier on created elements.
const idAttr = "data-widget-id"

// PresenceStrategy ensures the vendor script and exactly one tagged element.
// The vendor upgrades the element on its own, so there is nothing to poll.
type PresenceStrategy struct {
	Vendor Vendor
	Tag    string
}

func (s *PresenceStrategy) Start(env Env, inst *Instance) Task {
	env.Registry.Ensure(env.Doc, s.Vendor)
	inst.transition(StateScriptEnsured)

	cfg := inst.Config()
	attrs := cfg.Attributes()
	attrs[idAttr] = cfg.DestinationID
	placeElement(inst, Element{Tag: s.Tag, Attrs: attrs})
	inst.settle(StateInitialized, nil)
	return noopTask{}
}

// FrameStrategy renders the booking vendor through an embedded page. Frame
// loading is left to the browser.
type FrameStrategy struct {
	URL string
}

func (s *FrameStrategy) Start(env Env, inst *Instance) Task {
	cfg := inst.Config()
	placeElement(inst, Element{
		Tag: "iframe",
		Attrs: map[string]string{
			idAttr:    cfg.DestinationID,
			"src":     FrameSource(s.URL, cfg),
			"loading": "lazy",
			"title":   "booking",
		},
	})
	inst.settle(StateInitialized, nil)
	return noopTask{}
}

// placeElement makes el the only element the instance owns in its container.
// An element left by the instance's previous identity is removed; an existing
// element with the same identifier is kept as is.
func placeElement(inst *Instance, el Element) {
	id := el.Attrs[idAttr]
	if prev := inst.ownedElement(); prev != "" && prev != id {
		inst.container.RemoveChild(el.Tag, idAttr, prev)
	}
	if !inst.container.HasChild(el.Tag, idAttr, id) {
		inst.container.AppendChild(el)
	}
	inst.ownElement(id)
}

// FrameSource appends the identity and partner parameters to the embed URL.
func FrameSource(base string, cfg Config) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("id", cfg.DestinationID)
	if cfg.Campaign != "" {
		q.Set("campaign", cfg.Campaign)
	}
	if cfg.PartnerID != "" {
		q.Set("partner", cfg.PartnerID)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
