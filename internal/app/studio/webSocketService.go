package studio

import (
	"net/http"
	"sync"

	"github.com/airenas/audiobook/internal/pkg/cmdapp"
	"github.com/airenas/audiobook/internal/pkg/engine"
	"github.com/airenas/audiobook/internal/pkg/events"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// allJobs subscribes a connection to every job
const allJobs = "*"

// WsConn is interface for websocket handling in studio service
type WsConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
	WriteJSON(v interface{}) error
}

// JobProvider returns job by id
type JobProvider interface {
	Job(id string) (engine.Job, bool)
}

// Hub keeps websocket subscriptions and pushes job changes to them
type Hub struct {
	jobs JobProvider

	mapLock         sync.Mutex
	idConnectionMap map[string]map[WsConn]bool
	connectionIDMap map[WsConn]string
}

type removedMsg struct {
	ID      string `json:"id"`
	Removed bool   `json:"removed"`
}

// NewHub creates subscriptions hub
func NewHub(jobs JobProvider) *Hub {
	return &Hub{jobs: jobs, idConnectionMap: make(map[string]map[WsConn]bool),
		connectionIDMap: make(map[WsConn]string)}
}

// Notify sends job state to subscribers of the job and of all jobs
func (h *Hub) Notify(e events.Event) {
	switch e.Type {
	case events.Job:
		j, ok := h.jobs.Job(e.ID)
		if !ok {
			return
		}
		h.send(e.ID, j)
	case events.JobRemoved:
		h.send(e.ID, removedMsg{ID: e.ID, Removed: true})
	case events.Clear:
		h.send("", removedMsg{Removed: true})
	}
}

func (h *Hub) send(id string, msg interface{}) {
	h.mapLock.Lock()
	defer h.mapLock.Unlock()
	for _, key := range []string{id, allJobs} {
		for c := range h.idConnectionMap[key] {
			cmdapp.LogIf(sendMsg(c, msg))
		}
	}
}

func sendMsg(c WsConn, msg interface{}) error {
	err := c.WriteJSON(msg)
	if err != nil {
		return errors.Wrap(err, "Cannot write to websocket")
	}
	return nil
}

func (h *Hub) handleConnection(conn WsConn) {
	defer h.deleteConnection(conn)
	defer conn.Close()
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			cmdapp.Log.Debug(err)
			break
		}
		id := string(message)
		h.saveConnection(conn, id)
		if j, ok := h.jobs.Job(id); ok {
			h.mapLock.Lock()
			cmdapp.LogIf(sendMsg(conn, j))
			h.mapLock.Unlock()
		}
	}
	cmdapp.Log.Infof("handleConnection finish")
}

func (h *Hub) deleteConnection(conn WsConn) {
	h.mapLock.Lock()
	defer h.mapLock.Unlock()
	h.deleteConnectionNoSync(conn)
}

func (h *Hub) deleteConnectionNoSync(conn WsConn) {
	id, found := h.connectionIDMap[conn]
	if found {
		conns := h.idConnectionMap[id]
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.idConnectionMap, id)
		}
	}
	delete(h.connectionIDMap, conn)
}

func (h *Hub) saveConnection(conn WsConn, id string) {
	h.mapLock.Lock()
	defer h.mapLock.Unlock()
	h.deleteConnectionNoSync(conn)
	h.connectionIDMap[conn] = id
	conns, found := h.idConnectionMap[id]
	if !found {
		conns = map[WsConn]bool{}
		h.idConnectionMap[id] = conns
	}
	conns[conn] = true
	cmdapp.Log.Debugf("Subscriptions: %d", len(h.connectionIDMap))
}

func (h *Hub) getConnections(id string) (map[WsConn]bool, bool) {
	h.mapLock.Lock()
	defer h.mapLock.Unlock()
	r, found := h.idConnectionMap[id]
	return r, found
}

func (h *Hub) counts() (int, int) {
	h.mapLock.Lock()
	defer h.mapLock.Unlock()
	return len(h.idConnectionMap), len(h.connectionIDMap)
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	}}

type websocketHandler struct {
	hub *Hub
}

func (h websocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cmdapp.Log.Infof("ws request from %s", r.Host)

	c, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		cmdapp.Log.Error(errors.Wrap(err, "Can not init ws connection"))
		return
	}
	go h.hub.handleConnection(c)
}
