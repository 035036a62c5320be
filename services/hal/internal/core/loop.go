package core

import (
	"context"
	"time"

	"audiocodec-go/bus"
	"audiocodec-go/errcode"
	"audiocodec-go/types"
)

const (
	eventQueueLen = 16
	pollQueueLen  = 4
)

type HAL struct {
	conn *bus.Connection
	res  Resources

	dev      map[string]Device  // devID -> device
	capIndex map[CapAddr]string // capability -> devID

	cfgSub  *bus.Subscription
	ctrlSub *bus.Subscription

	// Single-threaded publication of device events
	evCh chan Event

	poller *Poller
	pollCh chan PollReq
}

func NewHAL(conn *bus.Connection, res Resources) *HAL {
	h := &HAL{
		conn:     conn,
		res:      res,
		dev:      map[string]Device{},
		capIndex: map[CapAddr]string{},
		evCh:     make(chan Event, eventQueueLen),
		pollCh:   make(chan PollReq, pollQueueLen),
	}
	// HAL provides the emitter to devices.
	h.res.Pub = h
	h.poller = NewPoller(h.pollCh)
	return h
}

func (h *HAL) Run(ctx context.Context) {
	h.cfgSub = h.conn.Subscribe(topicConfigHAL())
	h.ctrlSub = h.conn.Subscribe(ctrlWildcard())
	defer h.conn.Unsubscribe(h.cfgSub)
	defer h.conn.Unsubscribe(h.ctrlSub)

	go h.poller.Run(ctx)

	h.pubHALState("idle", "awaiting_config")
	ready := false
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			h.pubHALState("stopped", "context_cancelled")
			return
		case msg := <-h.cfgSub.Channel():
			cfg, code := As[types.HALConfig](msg.Payload)
			if code != "" {
				println("[hal] ignoring config: ", string(code))
				continue
			}
			// Additive: devices already built are left alone.
			h.applyConfig(ctx, cfg)
			if !ready {
				ready = true
				h.pubHALState("ready", "")
			}
		case m := <-h.ctrlSub.Channel():
			if !ready {
				h.replyErr(m, errcode.HALNotReady)
				continue
			}
			h.handleControl(m) // strictly non-blocking
		case pr := <-h.pollCh:
			h.dispatch(pr.Addr, pr.Verb, nil)
		case ev := <-h.evCh:
			// All device→HAL telemetry is published from this goroutine.
			h.handleEvent(ev)
		}
	}
}

func (h *HAL) applyConfig(ctx context.Context, cfg types.HALConfig) {
	for i := range cfg.Devices {
		dc := cfg.Devices[i]
		if _, exists := h.dev[dc.ID]; exists {
			continue
		}
		b, ok := lookupBuilder(dc.Type)
		if !ok {
			println("[hal] no builder for type:", dc.Type, "id:", dc.ID)
			continue
		}
		dev, err := b.Build(ctx, BuilderInput{
			ID:     dc.ID,
			Type:   dc.Type,
			Params: dc.Params,
			Res:    h.res,
		})
		if err != nil {
			println("[hal] build failed for:", dc.ID, "err:", err.Error())
			continue
		}
		if err := dev.Init(ctx); err != nil {
			println("[hal] init failed for:", dc.ID, "err:", err.Error())
			_ = dev.Close()
			continue
		}
		h.dev[dev.ID()] = dev

		// Register capabilities, publish retained info + initial status:down.
		for _, cs := range dev.Capabilities() {
			a := CapAddr{Domain: cs.Domain, Kind: cs.Kind, Name: cs.Name}
			if a.Name == "" {
				a.Name = dev.ID()
			}
			h.capIndex[a] = dev.ID()
			h.conn.Publish(h.conn.NewMessage(capInfo(a), cs.Info, true))
			h.conn.Publish(h.conn.NewMessage(
				capStatus(a),
				types.CapabilityStatus{Link: types.LinkDown, TS: time.Now().UnixNano()},
				true,
			))
		}
	}

	for _, ps := range cfg.Pollers {
		a := CapAddr{Domain: ps.Domain, Kind: ps.Kind, Name: ps.Name}
		if _, ok := h.capIndex[a]; !ok {
			println("[hal] poller for unknown capability:", capBase(a).String())
			continue
		}
		h.poller.Upsert(a, ps.Verb,
			time.Duration(ps.IntervalMs)*time.Millisecond,
			time.Duration(ps.JitterMs)*time.Millisecond)
	}
}

func (h *HAL) handleControl(msg *bus.Message) {
	// hal/cap/<domain>/<kind>/<name>/control/<verb>
	if msg.Topic.Len() < 7 {
		h.replyErr(msg, errcode.InvalidTopic)
		return
	}
	domain, _ := msg.Topic.At(2).(string)
	kind, _ := msg.Topic.At(3).(string)
	name, _ := msg.Topic.At(4).(string)
	verb, _ := msg.Topic.At(6).(string)

	a := CapAddr{Domain: domain, Kind: types.Kind(kind), Name: name}
	res, err := h.dispatch(a, verb, msg.Payload)
	if err != nil {
		h.replyFromError(msg, err)
		return
	}
	if !msg.CanReply() {
		return
	}
	switch {
	case res.OK && res.Value != nil:
		h.conn.Reply(msg, res.Value, false)
	case res.OK:
		h.replyOK(msg)
	default:
		code := res.Error
		if code == "" {
			code = errcode.Busy
		}
		h.replyErr(msg, code)
	}
}

func (h *HAL) dispatch(a CapAddr, verb string, payload any) (EnqueueResult, error) {
	ownerID, ok := h.capIndex[a]
	if !ok {
		return EnqueueResult{}, errcode.UnknownCapability
	}
	dev := h.dev[ownerID]
	if dev == nil {
		return EnqueueResult{}, errcode.Error
	}
	return dev.Control(a, verb, payload)
}

func (h *HAL) handleEvent(ev Event) {
	a := ev.Addr

	// Error → retained status:degraded; no value/event published.
	if ev.Err != "" {
		h.conn.Publish(h.conn.NewMessage(
			capStatus(a),
			types.CapabilityStatus{Link: types.LinkDegraded, TS: ev.TS, Error: ev.Err},
			true,
		))
		return
	}

	if ev.IsEvent {
		t := capEvent(a)
		if ev.EventTag != "" {
			t = t.Append(ev.EventTag)
		}
		h.conn.Publish(h.conn.NewMessage(t, ev.Payload, false))
	} else {
		h.conn.Publish(h.conn.NewMessage(capValue(a), ev.Payload, true))
	}
	h.conn.Publish(h.conn.NewMessage(
		capStatus(a),
		types.CapabilityStatus{Link: types.LinkUp, TS: ev.TS},
		true,
	))
}

func (h *HAL) closeAll() {
	for id, d := range h.dev {
		if err := d.Close(); err != nil {
			println("[hal] close failed for:", id, "err:", err.Error())
		}
	}
}

func (h *HAL) pubHALState(level, status string) {
	h.conn.Publish(h.conn.NewMessage(
		topicHALState(),
		types.HALState{Level: level, Status: status, TS: time.Now().UnixNano()},
		true,
	))
}

// ---- HAL as EventEmitter (enqueue to single publisher) ----

func (h *HAL) Emit(ev Event) bool {
	select {
	case h.evCh <- ev:
		return true
	default:
		return false
	}
}
