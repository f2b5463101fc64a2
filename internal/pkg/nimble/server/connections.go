package server

import (
	"net"

	"github.com/sirupsen/logrus"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/transportconn"
)

// connectionFor returns the TransportConnection bound to addr, creating
// one by first-free scan if addr has not been seen before. It returns
// ErrTooManyConnections once every slot is in use, the server's hard cap
// on simultaneous connections.
func (s *Server) connectionFor(addr net.Addr) (*transportconn.Connection, uint8, error) {
	key := addr.String()
	if index, ok := s.addrIndex[key]; ok {
		return s.transportConns.Get(index), index, nil
	}

	for i := 0; i < s.transportConns.Len(); i++ {
		index := uint8(i)
		if s.transportConns.Get(index).IsUsed {
			continue
		}
		tc := s.transportConns.Connect(index)
		s.addrIndex[key] = index
		s.indexAddr[index] = addr
		s.log.WithFields(connectionLogFields(index)).Info("transport connection established")
		return tc, index, nil
	}
	return nil, 0, ErrTooManyConnections
}

// disconnect releases every resource held by the transport connection at
// index: its assigned ParticipantConnection (and the Participants it
// owns), any in-flight blob-stream channel, and the address mapping.
func (s *Server) disconnect(index uint8) {
	tc := s.transportConns.Get(index)
	if tc == nil || !tc.IsUsed {
		return
	}
	if conn, ok := s.participants.FindByTransportConnectionId(index); ok {
		for _, p := range conn.ParticipantRefs {
			s.game.Participants.Release(p.Id)
		}
		s.participants.Release(conn)
	}
	if tc.BlobStreamOutActive {
		s.channels.Release(tc.BlobStreamOutChannel)
	}
	delete(s.addrIndex, s.indexAddr[index].String())
	s.indexAddr[index] = nil
	s.transportConns.Disconnect(index)
	s.log.WithFields(connectionLogFields(index)).Info("transport connection released")
}

func connectionLogFields(index uint8) logrus.Fields {
	return logrus.Fields{"transportConnIndex": index}
}
