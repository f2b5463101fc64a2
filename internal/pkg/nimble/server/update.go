package server

import (
	"time"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/limits"
	nlog "github.com/opera-aberglund/nimble-server-lib/internal/pkg/log"
)

// Update drains up to limits.MaxDatagramsPerUpdate inbound datagrams and
// rolls the stats windows. It never waits for datagrams to arrive:
// callers drive the tick rate by how often they invoke Update. Composing authoritative steps does
// not happen here: it happens inline with each GameStep request, in
// handler.HandleGameStep, so a request's own predicted input can be
// reflected in that same request's response.
func (s *Server) Update(now time.Time) error {
	s.drainInbox()

	s.composedStepsPerSecond.Update(now)
	s.datagramsInPerSecond.Update(now)
	s.datagramsOutPerSecond.Update(now)

	s.updateCount++
	if s.updateCount%limits.StatsLogEveryUpdates == 0 {
		s.log.WithFields(nlog.StatsFields(
			len(s.transportConns.InUse()),
			len(s.participants.InUse()),
			s.composedStepsPerSecond.Rate(),
			s.datagramsInPerSecond.Rate(),
			s.datagramsOutPerSecond.Rate(),
		)).Info("server stats")
	}
	return nil
}

func (s *Server) drainInbox() {
	processed := 0
datagramsLoop:
	for processed < limits.MaxDatagramsPerUpdate {
		select {
		case in, ok := <-s.transport.Inbox():
			if !ok {
				break datagramsLoop
			}
			s.datagramsInPerSecond.Add(1)
			s.handleDatagram(in.Addr, in.Data)
			processed++
		default:
			break datagramsLoop
		}
	}
}
