package ai

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"syscall"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/pebbe/zmq4"

	"objdetect/internal/logger"
	"objdetect/internal/model"
)

// inferRequest is the CBOR message sent to a remote inference worker.
// Pix is packed BGR, row stride Width*3.
type inferRequest struct {
	Width  int    `cbor:"width"`
	Height int    `cbor:"height"`
	Pix    []byte `cbor:"pix"`
}

type wireDetection struct {
	ClassID    int     `cbor:"class_id"`
	ClassName  string  `cbor:"class_name,omitempty"`
	Confidence float64 `cbor:"confidence"`
	Box        [4]int  `cbor:"box"`
}

// inferReply is the worker's answer. A non-empty Error means inference failed.
type inferReply struct {
	Error      string          `cbor:"error,omitempty"`
	Detections []wireDetection `cbor:"detections"`
}

// ZMQBackend forwards inference to a remote worker over a ZeroMQ REQ socket.
type ZMQBackend struct {
	endpoint string
	timeout  time.Duration
	labels   Labels
	logger   *logger.Logger

	mu     sync.Mutex
	socket *zmq4.Socket
}

// NewZMQBackend connects a REQ socket to endpoint. A zero timeout waits
// forever for replies.
func NewZMQBackend(endpoint string, timeout time.Duration, labels Labels, logger *logger.Logger) (*ZMQBackend, error) {
	b := &ZMQBackend{endpoint: endpoint, timeout: timeout, labels: labels, logger: logger}
	socket, err := b.connect()
	if err != nil {
		return nil, err
	}
	b.socket = socket
	logger.Info("Connected detection backend to %s", endpoint)
	return b, nil
}

func (b *ZMQBackend) connect() (*zmq4.Socket, error) {
	socket, err := zmq4.NewSocket(zmq4.REQ)
	if err != nil {
		return nil, err
	}
	if err := socket.SetLinger(0); err != nil {
		_ = socket.Close()
		return nil, err
	}
	if b.timeout > 0 {
		if err := socket.SetRcvtimeo(b.timeout); err != nil {
			_ = socket.Close()
			return nil, err
		}
	}
	if err := socket.Connect(b.endpoint); err != nil {
		_ = socket.Close()
		return nil, err
	}
	return socket, nil
}

func (b *ZMQBackend) Name() string { return "zmq" }

// Infer sends buf to the worker and waits for its reply. A REQ socket that
// failed mid-exchange cannot be reused, so it is replaced.
func (b *ZMQBackend) Infer(ctx context.Context, buf *model.PixelBuffer) ([]model.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := cbor.Marshal(inferRequest{Width: buf.Width, Height: buf.Height, Pix: buf.Pix})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %v", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.socket == nil {
		socket, err := b.connect()
		if err != nil {
			return nil, err
		}
		b.socket = socket
	}

	reply, err := b.exchange(payload)
	if err != nil {
		b.logger.Warning("Resetting detection socket after error: %v", err)
		_ = b.socket.Close()
		b.socket = nil
		return nil, err
	}

	return decodeReply(reply, b.labels)
}

func (b *ZMQBackend) exchange(payload []byte) ([]byte, error) {
	if _, err := b.socket.SendBytes(payload, 0); err != nil {
		return nil, fmt.Errorf("send failed: %v", err)
	}
	reply, err := b.socket.RecvBytes(0)
	if err != nil {
		if zmq4.AsErrno(err) == zmq4.Errno(syscall.EAGAIN) {
			return nil, fmt.Errorf("no reply from %s within %s", b.endpoint, b.timeout)
		}
		return nil, fmt.Errorf("receive failed: %v", err)
	}
	return reply, nil
}

// Close releases the socket.
func (b *ZMQBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.socket == nil {
		return nil
	}
	err := b.socket.Close()
	b.socket = nil
	return err
}

func decodeReply(msg []byte, labels Labels) ([]model.Detection, error) {
	var reply inferReply
	if err := cbor.Unmarshal(msg, &reply); err != nil {
		return nil, fmt.Errorf("invalid reply: %v", err)
	}
	if reply.Error != "" {
		return nil, errors.New(reply.Error)
	}

	detections := make([]model.Detection, 0, len(reply.Detections))
	for _, d := range reply.Detections {
		box := model.Box{X1: d.Box[0], Y1: d.Box[1], X2: d.Box[2], Y2: d.Box[3]}
		// Drop empty or inverted boxes and out-of-range (or NaN) scores.
		if !box.Valid() || !(d.Confidence >= 0 && d.Confidence <= 1) {
			continue
		}
		name := d.ClassName
		if name == "" {
			name = labels.Name(d.ClassID)
		}
		detections = append(detections, model.Detection{
			ClassID:    d.ClassID,
			ClassName:  name,
			Confidence: d.Confidence,
			Box:        box,
		})
	}
	return detections, nil
}
