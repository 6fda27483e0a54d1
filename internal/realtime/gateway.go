package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"hostelhub/internal/domain"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Upper bound on handling time for events that touch the database.
const dispatchTimeout = 10 * time.Second

// FeedbackCounter is the slice of the feedback service the gateway needs
// for the submitCount event.
type FeedbackCounter interface {
	Submit(ctx context.Context, identity string, category domain.FeedbackCategory) (domain.FeedbackCounts, int, error)
}

// ComplaintBook is the slice of the complaint service the gateway needs
// for the submitComplaint/getComplaints events.
type ComplaintBook interface {
	Submit(ctx context.Context, username, roomNumber, category, description string) (*domain.Complaint, error)
	List(ctx context.Context) ([]domain.Complaint, error)
}

// Gateway owns a connection's lifecycle on the event channel: it mints the
// connection id, reads and dispatches client events to the registry, the
// relay and the collaborating services, and runs the disconnect cascade.
type Gateway struct {
	hub        *Hub
	registry   *Registry
	relay      *Relay
	feedback   FeedbackCounter
	complaints ComplaintBook
}

func NewGateway(hub *Hub, registry *Registry, relay *Relay, feedback FeedbackCounter, complaints ComplaintBook) *Gateway {
	g := &Gateway{
		hub:        hub,
		registry:   registry,
		relay:      relay,
		feedback:   feedback,
		complaints: complaints,
	}
	// A request the owner never answers is auto-denied after the TTL;
	// the requester must not be left waiting forever.
	relay.OnExpire(func(t domain.PendingTransfer) {
		g.hub.SendTo(t.RequesterID, EventTransferDenied, TransferDeniedPayload{
			FileID:   t.FileID,
			FileName: t.FileName,
			Reason:   "expired",
		})
	})
	return g
}

// HandleConnection services one websocket connection until it closes.
func (g *Gateway) HandleConnection(sock *websocket.Conn) {
	c := newConn(uuid.NewString(), sock)
	g.hub.attach(c)
	go c.writePump()

	// Leave headroom above the relay limit for the JSON envelope and the
	// base64 expansion of the payload.
	sock.SetReadLimit(g.relay.maxFileSize*2 + 64*1024)
	sock.SetReadDeadline(time.Now().Add(pongWait))
	sock.SetPongHandler(func(string) error {
		sock.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WARN: connection %s read error: %v", c.ID, err)
			}
			break
		}

		var env Envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			g.hub.SendTo(c.ID, EventSendError, ErrorPayload{Reason: "malformed event envelope"})
			continue
		}
		g.dispatch(c, env)
	}

	g.disconnect(c)
}

// dispatch routes one client event to the matching operation. Failures are
// reported only to the originating connection, never broadcast.
func (g *Gateway) dispatch(c *Conn, env Envelope) {
	switch env.Event {
	case EventRegister:
		g.handleRegister(c, env.Data)
	case EventListPeers:
		g.hub.SendTo(c.ID, EventPeerList, PeerListPayload{Peers: g.peerList()})
	case EventUploadFile:
		g.handleUpload(c, env.Data)
	case EventListPeerFiles:
		g.handleListPeerFiles(c, env.Data)
	case EventRequestFile:
		g.handleRequestFile(c, env.Data)
	case EventResolveTransfer:
		g.handleResolveTransfer(c, env.Data)
	case EventSubmitCount:
		g.handleSubmitCount(c, env.Data)
	case EventSubmitComplaint:
		g.handleSubmitComplaint(c, env.Data)
	case EventGetComplaints:
		g.handleGetComplaints(c)
	default:
		g.hub.SendTo(c.ID, EventSendError, ErrorPayload{Reason: "unknown event: " + env.Event})
	}
}

func (g *Gateway) handleRegister(c *Conn, data json.RawMessage) {
	var payload RegisterPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		g.hub.SendTo(c.ID, EventSendError, ErrorPayload{Reason: "malformed register payload"})
		return
	}

	if _, err := g.registry.Register(c.ID, payload.Identity); err != nil {
		g.hub.SendTo(c.ID, EventSendError, ErrorPayload{Reason: err.Error()})
		return
	}

	g.broadcastPeerList()
}

func (g *Gateway) handleUpload(c *Conn, data json.RawMessage) {
	var payload UploadFilePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		g.hub.SendTo(c.ID, EventUploadFailed, ErrorPayload{Reason: "malformed upload payload"})
		return
	}

	record, err := g.relay.Upload(c.ID, payload.Name, payload.Payload)
	if err != nil {
		g.hub.SendTo(c.ID, EventUploadFailed, ErrorPayload{Reason: err.Error()})
		return
	}

	g.hub.SendTo(c.ID, EventUploadSucceeded, UploadSucceededPayload{File: record.Meta()})
	// File counts are peer-visible, so every upload changes the peer list.
	g.broadcastPeerList()
}

func (g *Gateway) handleListPeerFiles(c *Conn, data json.RawMessage) {
	var payload ListPeerFilesPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		g.hub.SendTo(c.ID, EventPeerFilesError, ErrorPayload{Reason: "malformed listPeerFiles payload"})
		return
	}

	files, err := g.relay.PeerFiles(payload.PeerID)
	if err != nil {
		g.hub.SendTo(c.ID, EventPeerFilesError, ErrorPayload{Reason: err.Error()})
		return
	}

	g.hub.SendTo(c.ID, EventPeerFiles, PeerFilesPayload{PeerID: payload.PeerID, Files: files})
}

func (g *Gateway) handleRequestFile(c *Conn, data json.RawMessage) {
	var payload RequestFilePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		g.hub.SendTo(c.ID, EventFileRequestError, ErrorPayload{Reason: "malformed requestFile payload"})
		return
	}

	transfer, err := g.relay.RequestTransfer(c.ID, payload.PeerID, payload.FileID)
	if err != nil {
		g.hub.SendTo(c.ID, EventFileRequestError, ErrorPayload{Reason: err.Error()})
		return
	}

	requester, _ := g.registry.Identity(c.ID)
	g.hub.SendTo(c.ID, EventFileRequestSent, FileRequestSentPayload{
		PeerID: payload.PeerID,
		FileID: payload.FileID,
	})
	// The owner, and only the owner, learns about the request.
	g.hub.SendTo(transfer.OwnerID, EventFileRequested, FileRequestedPayload{
		RequesterID: c.ID,
		Requester:   requester,
		FileID:      transfer.FileID,
		FileName:    transfer.FileName,
	})
}

func (g *Gateway) handleResolveTransfer(c *Conn, data json.RawMessage) {
	var payload ResolveTransferPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		g.hub.SendTo(c.ID, EventSendError, ErrorPayload{Reason: "malformed resolveTransfer payload"})
		return
	}
	if payload.Decision != "approve" && payload.Decision != "deny" {
		g.hub.SendTo(c.ID, EventSendError, ErrorPayload{Reason: "decision must be approve or deny"})
		return
	}
	approve := payload.Decision == "approve"

	record, transfer, err := g.relay.ResolveTransfer(c.ID, payload.RequesterID, payload.FileID, approve)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			// File vanished between request and approval; the requester
			// learns the handshake is over instead of hanging.
			g.hub.SendTo(transfer.RequesterID, EventTransferDenied, TransferDeniedPayload{
				FileID:   payload.FileID,
				FileName: transfer.FileName,
				Reason:   "expired",
			})
		}
		g.hub.SendTo(c.ID, EventSendError, ErrorPayload{Reason: err.Error()})
		return
	}

	if !approve {
		g.hub.SendTo(transfer.RequesterID, EventTransferDenied, TransferDeniedPayload{
			FileID:   transfer.FileID,
			FileName: transfer.FileName,
			Reason:   "denied",
		})
		return
	}

	// The payload goes to the single approved requester and nobody else.
	g.hub.SendTo(transfer.RequesterID, EventFileReceived, FileReceivedPayload{
		File: ReceivedFile{
			ID:   record.ID,
			Name: record.Name,
			Size: record.Size,
			Data: record.Data,
		},
	})
}

func (g *Gateway) handleSubmitCount(c *Conn, data json.RawMessage) {
	var payload SubmitCountPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		g.hub.SendTo(c.ID, EventSendError, ErrorPayload{Reason: "malformed submitCount payload"})
		return
	}

	identity, ok := g.registry.Identity(c.ID)
	if !ok {
		g.hub.SendTo(c.ID, EventSendError, ErrorPayload{Reason: ErrNotRegistered.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	// The feedback service broadcasts countsUpdated itself on success.
	_, remaining, err := g.feedback.Submit(ctx, identity, payload.Category)
	if err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			g.hub.SendTo(c.ID, EventQuotaExceeded, QuotaExceededPayload{
				Reason:    err.Error(),
				Remaining: remaining,
			})
			return
		}
		g.hub.SendTo(c.ID, EventSendError, ErrorPayload{Reason: err.Error()})
	}
}

func (g *Gateway) handleSubmitComplaint(c *Conn, data json.RawMessage) {
	var payload SubmitComplaintPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		g.hub.SendTo(c.ID, EventComplaintError, ErrorPayload{Reason: "malformed submitComplaint payload"})
		return
	}

	// Prefer the registered identity; fall back to the payload for
	// connections that file complaints before registering as a peer.
	username := payload.Username
	if identity, ok := g.registry.Identity(c.ID); ok {
		username = identity
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	// The complaint service broadcasts newComplaint itself.
	_, err := g.complaints.Submit(ctx, username, payload.RoomNumber, payload.Category, payload.Description)
	if err != nil {
		g.hub.SendTo(c.ID, EventComplaintError, ErrorPayload{Reason: err.Error()})
		return
	}

	g.hub.SendTo(c.ID, EventComplaintAck, ComplaintAckPayload{
		Success: true,
		Message: "Complaint submitted successfully",
	})
}

func (g *Gateway) handleGetComplaints(c *Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	complaints, err := g.complaints.List(ctx)
	if err != nil {
		g.hub.SendTo(c.ID, EventComplaintError, ErrorPayload{Reason: err.Error()})
		return
	}

	g.hub.SendTo(c.ID, EventComplaintsList, complaints)
}

// disconnect runs the teardown cascade for a closing connection: its files
// are purged, every transfer it participates in is expired with the
// surviving counterpart notified, and the peer list change is broadcast.
func (g *Gateway) disconnect(c *Conn) {
	g.hub.detach(c.ID)

	// Unregister before purging: the relay checks registration under its
	// own lock, so once the identity is gone no new file can slip in
	// behind the purge.
	_, wasRegistered := g.registry.Remove(c.ID)

	expired := g.relay.PurgePeer(c.ID)
	for _, t := range expired {
		switch c.ID {
		case t.OwnerID:
			g.hub.SendTo(t.RequesterID, EventTransferDenied, TransferDeniedPayload{
				FileID:   t.FileID,
				FileName: t.FileName,
				Reason:   "peer disconnected",
			})
		case t.RequesterID:
			g.hub.SendTo(t.OwnerID, EventFileRequestWithdrawn, FileRequestWithdrawnPayload{
				RequesterID: t.RequesterID,
				FileID:      t.FileID,
			})
		}
	}

	if wasRegistered {
		g.broadcastPeerList()
	}
}

// peerList snapshots the registered peers with their current file counts.
func (g *Gateway) peerList() []domain.Peer {
	peers := g.registry.List()
	for i := range peers {
		peers[i].FileCount = g.relay.FileCount(peers[i].ConnID)
	}
	return peers
}

func (g *Gateway) broadcastPeerList() {
	g.hub.Broadcast(EventPeerListChanged, PeerListPayload{Peers: g.peerList()})
}
