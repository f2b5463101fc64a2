package wire

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrTruncated is returned whenever a decode runs out of bytes before the
// frame is fully consumed.
var ErrTruncated = errors.New("truncated frame")

// ParticipantStep is one participant's contribution to a single tick.
type ParticipantStep struct {
	ParticipantId uint8
	Bytes         []byte
}

// CombinedStep is the concatenation, in ascending participant id order, of
// every contributing participant's payload for a single tick.
type CombinedStep []ParticipantStep

// EncodeCombinedStepBody writes participantCount then each
// (participantId, stepLen, stepBytes) entry, without the outer 2-byte
// length prefix. This is the form stored directly in a steps.Store slot,
// where the slice length itself is the boundary.
func EncodeCombinedStepBody(step CombinedStep) ([]byte, error) {
	var body bytes.Buffer
	if len(step) > 0xFF {
		return nil, errors.New("too many participants in a single combined step")
	}
	body.WriteByte(byte(len(step)))
	for _, p := range step {
		if len(p.Bytes) > 0xFF {
			return nil, errors.New("participant step payload too large")
		}
		body.WriteByte(p.ParticipantId)
		body.WriteByte(byte(len(p.Bytes)))
		body.Write(p.Bytes)
	}
	return body.Bytes(), nil
}

// DecodeCombinedStepBody reads a combined step body as produced by
// EncodeCombinedStepBody.
func DecodeCombinedStepBody(body []byte) (CombinedStep, error) {
	br := bytes.NewReader(body)
	participantCount, err := br.ReadByte()
	if err != nil {
		return nil, errors.Wrap(ErrTruncated, "participant count")
	}
	step := make(CombinedStep, 0, participantCount)
	for i := 0; i < int(participantCount); i++ {
		participantId, err := br.ReadByte()
		if err != nil {
			return nil, errors.Wrap(ErrTruncated, "participant id")
		}
		stepLen, err := br.ReadByte()
		if err != nil {
			return nil, errors.Wrap(ErrTruncated, "step len")
		}
		payload := make([]byte, stepLen)
		if _, err := readFull(br, payload); err != nil {
			return nil, errors.Wrap(ErrTruncated, "step bytes")
		}
		step = append(step, ParticipantStep{ParticipantId: participantId, Bytes: payload})
	}
	return step, nil
}

// EncodeCombinedStep writes combinedLen, participantCount, then each
// (participantId, stepLen, stepBytes) entry.
func EncodeCombinedStep(buf *bytes.Buffer, step CombinedStep) error {
	body, err := EncodeCombinedStepBody(step)
	if err != nil {
		return err
	}
	if len(body) > 0xFFFF {
		return errors.New("combined step too large")
	}
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(body)))
	buf.Write(lenBuf[:])
	buf.Write(body)
	return nil
}

// DecodeCombinedStep reads one combined step frame.
func DecodeCombinedStep(r *bytes.Reader) (CombinedStep, error) {
	var lenBuf [2]byte
	if _, err := readFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	combinedLen := binary.BigEndian.Uint16(lenBuf[:])
	body := make([]byte, combinedLen)
	if _, err := readFull(r, body); err != nil {
		return nil, err
	}
	return DecodeCombinedStepBody(body)
}

func readFull(r *bytes.Reader, out []byte) (int, error) {
	n, err := r.Read(out)
	if err != nil {
		return n, err
	}
	if n != len(out) {
		return n, ErrTruncated
	}
	return n, nil
}

// GameStepRequest is the payload of a CmdGameStep datagram sent by a client.
type GameStepRequest struct {
	WaitingForStepId     uint32
	FirstPredictedStepId uint32
	Steps                []CombinedStep
}

// EncodeGameStepRequest encodes req's payload (without the 3-octet header).
func EncodeGameStepRequest(req GameStepRequest) ([]byte, error) {
	var buf bytes.Buffer
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], req.WaitingForStepId)
	binary.BigEndian.PutUint32(hdr[4:8], req.FirstPredictedStepId)
	buf.Write(hdr[:])
	if len(req.Steps) > 0xFF {
		return nil, errors.New("too many steps in a single GameStep request")
	}
	buf.WriteByte(byte(len(req.Steps)))
	for _, step := range req.Steps {
		if err := EncodeCombinedStep(&buf, step); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// DecodeGameStepRequest decodes a CmdGameStep payload.
func DecodeGameStepRequest(payload []byte) (GameStepRequest, error) {
	r := bytes.NewReader(payload)
	var hdr [8]byte
	if _, err := readFull(r, hdr[:]); err != nil {
		return GameStepRequest{}, errors.Wrap(ErrTruncated, "game step header")
	}
	req := GameStepRequest{
		WaitingForStepId:     binary.BigEndian.Uint32(hdr[0:4]),
		FirstPredictedStepId: binary.BigEndian.Uint32(hdr[4:8]),
	}
	stepCount, err := r.ReadByte()
	if err != nil {
		return GameStepRequest{}, errors.Wrap(ErrTruncated, "step count")
	}
	req.Steps = make([]CombinedStep, 0, stepCount)
	for i := 0; i < int(stepCount); i++ {
		step, err := DecodeCombinedStep(r)
		if err != nil {
			return GameStepRequest{}, err
		}
		req.Steps = append(req.Steps, step)
	}
	return req, nil
}

// GameStepResponse is the payload of a CmdGameStepResponse datagram.
type GameStepResponse struct {
	StartStepId uint32
	Steps       []CombinedStep
}

// EncodeGameStepResponse encodes resp's payload (without the header).
func EncodeGameStepResponse(resp GameStepResponse) ([]byte, error) {
	var buf bytes.Buffer
	var startBuf [4]byte
	binary.BigEndian.PutUint32(startBuf[:], resp.StartStepId)
	buf.Write(startBuf[:])
	if len(resp.Steps) > 0xFF {
		return nil, errors.New("too many steps in a single GameStep response")
	}
	buf.WriteByte(byte(len(resp.Steps)))
	for _, step := range resp.Steps {
		if err := EncodeCombinedStep(&buf, step); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// DecodeGameStepResponse decodes a CmdGameStepResponse payload.
func DecodeGameStepResponse(payload []byte) (GameStepResponse, error) {
	r := bytes.NewReader(payload)
	var startBuf [4]byte
	if _, err := readFull(r, startBuf[:]); err != nil {
		return GameStepResponse{}, errors.Wrap(ErrTruncated, "start step id")
	}
	resp := GameStepResponse{StartStepId: binary.BigEndian.Uint32(startBuf[:])}
	stepCount, err := r.ReadByte()
	if err != nil {
		return GameStepResponse{}, errors.Wrap(ErrTruncated, "step count")
	}
	resp.Steps = make([]CombinedStep, 0, stepCount)
	for i := 0; i < int(stepCount); i++ {
		step, err := DecodeCombinedStep(r)
		if err != nil {
			return GameStepResponse{}, err
		}
		resp.Steps = append(resp.Steps, step)
	}
	return resp, nil
}

// JoinGameRequest lists the local player slots a connection wants.
type JoinGameRequest struct {
	LocalPlayerCount uint8
}

// EncodeJoinGameRequest encodes req's payload.
func EncodeJoinGameRequest(req JoinGameRequest) []byte {
	return []byte{req.LocalPlayerCount}
}

// DecodeJoinGameRequest decodes a CmdJoinGameRequest payload.
func DecodeJoinGameRequest(payload []byte) (JoinGameRequest, error) {
	if len(payload) < 1 {
		return JoinGameRequest{}, errors.Wrap(ErrTruncated, "join game request")
	}
	return JoinGameRequest{LocalPlayerCount: payload[0]}, nil
}

// JoinGameResponse carries the participant ids assigned to the requesting
// connection and its session nonce.
type JoinGameResponse struct {
	ParticipantIds []uint8
	SessionNonce   [16]byte
}

// EncodeJoinGameResponse encodes resp's payload.
func EncodeJoinGameResponse(resp JoinGameResponse) ([]byte, error) {
	if len(resp.ParticipantIds) > 0xFF {
		return nil, errors.New("too many participant ids")
	}
	var buf bytes.Buffer
	buf.WriteByte(byte(len(resp.ParticipantIds)))
	buf.Write(resp.ParticipantIds)
	buf.Write(resp.SessionNonce[:])
	return buf.Bytes(), nil
}

// DecodeJoinGameResponse decodes a CmdJoinGameResponse payload.
func DecodeJoinGameResponse(payload []byte) (JoinGameResponse, error) {
	r := bytes.NewReader(payload)
	count, err := r.ReadByte()
	if err != nil {
		return JoinGameResponse{}, errors.Wrap(ErrTruncated, "participant count")
	}
	ids := make([]byte, count)
	if _, err := readFull(r, ids); err != nil {
		return JoinGameResponse{}, errors.Wrap(ErrTruncated, "participant ids")
	}
	var nonce [16]byte
	if _, err := readFull(r, nonce[:]); err != nil {
		return JoinGameResponse{}, errors.Wrap(ErrTruncated, "session nonce")
	}
	return JoinGameResponse{ParticipantIds: ids, SessionNonce: nonce}, nil
}

// DownloadGameStateRequest is the payload of a CmdDownloadGameStateRequest.
type DownloadGameStateRequest struct {
	ClientRequestId   uint8
	ApplicationVersion uint32
}

// EncodeDownloadGameStateRequest encodes req's payload.
func EncodeDownloadGameStateRequest(req DownloadGameStateRequest) []byte {
	buf := make([]byte, 5)
	buf[0] = req.ClientRequestId
	binary.BigEndian.PutUint32(buf[1:5], req.ApplicationVersion)
	return buf
}

// DecodeDownloadGameStateRequest decodes a CmdDownloadGameStateRequest payload.
func DecodeDownloadGameStateRequest(payload []byte) (DownloadGameStateRequest, error) {
	if len(payload) < 5 {
		return DownloadGameStateRequest{}, errors.Wrap(ErrTruncated, "download game state request")
	}
	return DownloadGameStateRequest{
		ClientRequestId:    payload[0],
		ApplicationVersion: binary.BigEndian.Uint32(payload[1:5]),
	}, nil
}

// DownloadGameStateResponse is the payload of a CmdDownloadGameStateResponse.
type DownloadGameStateResponse struct {
	ClientRequestId     uint8
	VersionMismatch     bool
	BlobChannel         uint8
	TotalOctetCount     uint32
	StepId              uint32
}

// EncodeDownloadGameStateResponse encodes resp's payload.
func EncodeDownloadGameStateResponse(resp DownloadGameStateResponse) []byte {
	buf := make([]byte, 11)
	buf[0] = resp.ClientRequestId
	if resp.VersionMismatch {
		buf[1] = 1
	}
	buf[2] = resp.BlobChannel
	binary.BigEndian.PutUint32(buf[3:7], resp.TotalOctetCount)
	binary.BigEndian.PutUint32(buf[7:11], resp.StepId)
	return buf
}

// DecodeDownloadGameStateResponse decodes a CmdDownloadGameStateResponse payload.
func DecodeDownloadGameStateResponse(payload []byte) (DownloadGameStateResponse, error) {
	if len(payload) < 11 {
		return DownloadGameStateResponse{}, errors.Wrap(ErrTruncated, "download game state response")
	}
	return DownloadGameStateResponse{
		ClientRequestId: payload[0],
		VersionMismatch: payload[1] != 0,
		BlobChannel:     payload[2],
		TotalOctetCount: binary.BigEndian.Uint32(payload[3:7]),
		StepId:          binary.BigEndian.Uint32(payload[7:11]),
	}, nil
}

// DownloadGameStateStatus is the client's ack of chunk progress on a blob
// stream channel, the payload of a CmdDownloadGameStateStatus datagram.
type DownloadGameStateStatus struct {
	BlobChannel        uint8
	ReceivedOctetCount uint32
}

// EncodeDownloadGameStateStatus encodes status's payload.
func EncodeDownloadGameStateStatus(status DownloadGameStateStatus) []byte {
	buf := make([]byte, 5)
	buf[0] = status.BlobChannel
	binary.BigEndian.PutUint32(buf[1:5], status.ReceivedOctetCount)
	return buf
}

// DecodeDownloadGameStateStatus decodes a CmdDownloadGameStateStatus payload.
func DecodeDownloadGameStateStatus(payload []byte) (DownloadGameStateStatus, error) {
	if len(payload) < 5 {
		return DownloadGameStateStatus{}, errors.Wrap(ErrTruncated, "download game state status")
	}
	return DownloadGameStateStatus{
		BlobChannel:        payload[0],
		ReceivedOctetCount: binary.BigEndian.Uint32(payload[1:5]),
	}, nil
}

// BlobChunk is one fragment of a snapshot transfer on a blob-stream
// channel, the payload of a CmdBlobStreamChunk datagram.
type BlobChunk struct {
	Channel    uint8
	ChunkIndex uint32
	IsLast     bool
	Payload    []byte
}

// EncodeBlobChunk encodes chunk's payload.
func EncodeBlobChunk(chunk BlobChunk) []byte {
	buf := make([]byte, 6+len(chunk.Payload))
	buf[0] = chunk.Channel
	binary.BigEndian.PutUint32(buf[1:5], chunk.ChunkIndex)
	if chunk.IsLast {
		buf[5] = 1
	}
	copy(buf[6:], chunk.Payload)
	return buf
}

// DecodeBlobChunk decodes a CmdBlobStreamChunk payload.
func DecodeBlobChunk(payload []byte) (BlobChunk, error) {
	if len(payload) < 6 {
		return BlobChunk{}, errors.Wrap(ErrTruncated, "blob chunk")
	}
	return BlobChunk{
		Channel:    payload[0],
		ChunkIndex: binary.BigEndian.Uint32(payload[1:5]),
		IsLast:     payload[5] != 0,
		Payload:    payload[6:],
	}, nil
}
