// Package heartbeat logs a periodic liveness line carrying the link state of
// every codec capability HAL has announced.
package heartbeat

import (
	"context"
	"sort"
	"time"

	"audiocodec-go/bus"
	"audiocodec-go/types"
)

var (
	topicConfigHeartbeat = bus.T("config", "heartbeat")
	topicCodecStatus     = bus.T("hal", "cap", "+", string(types.KindCodec), "+", "status")
)

const defaultInterval = 10 * time.Second

type Service struct {
	links map[string]types.Link
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)
	stSub := conn.Subscribe(topicCodecStatus)
	defer conn.Unsubscribe(stSub)

	tick := time.NewTicker(defaultInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("[heartbeat] stopping")
			return
		case t := <-tick.C:
			println(s.line(t))
		case m := <-stSub.Channel():
			s.observe(m)
		case msg := <-cfgSub.Channel():
			if iv, ok := intervalFrom(msg.Payload); ok {
				tick.Reset(iv)
				println("[heartbeat] interval set to", int(iv/time.Second), "seconds")
			}
		}
	}
}

// observe records the link carried by a codec status message.
func (s *Service) observe(m *bus.Message) {
	st, ok := m.Payload.(types.CapabilityStatus)
	if !ok || m.Topic.Len() < 5 {
		return
	}
	name, _ := m.Topic.At(4).(string)
	if s.links == nil {
		s.links = make(map[string]types.Link)
	}
	s.links[name] = st.Link
}

func (s *Service) line(t time.Time) string {
	out := "[heartbeat] " + t.Format("15:04:05")
	if len(s.links) == 0 {
		return out + " no codecs"
	}
	names := make([]string, 0, len(s.links))
	for n := range s.links {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		out += " " + n + "=" + string(s.links[n])
	}
	return out
}

// intervalFrom reads {"interval": seconds} from a config payload.
func intervalFrom(p any) (time.Duration, bool) {
	m, ok := p.(map[string]any)
	if !ok {
		return 0, false
	}
	secs, ok := m["interval"].(float64)
	if !ok || secs <= 0 {
		return 0, false
	}
	return time.Duration(secs * float64(time.Second)), true
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
