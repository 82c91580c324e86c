package studio

import (
	"errors"
	"sync"
	"testing"

	"github.com/airenas/audiobook/internal/pkg/engine"
	"github.com/airenas/audiobook/internal/pkg/events"
	"github.com/airenas/audiobook/internal/pkg/status"
	. "github.com/smartystreets/goconvey/convey"
)

func TestHandleConnection(t *testing.T) {
	Convey("Given a hub and a mock connection", t, func() {
		hub := NewHub(jobsMock{"id1": {ID: "id1", Stage: status.Chunking}})
		ch := make(chan string)
		readCh := make(chan bool)
		fc := make(chan bool)
		conn := newWsConnMock(ch, readCh)
		go func() {
			hub.handleConnection(conn)
			fc <- true
		}()
		Convey("When read fails", func() {
			close(ch)
			<-fc
			Convey("Then the connection is closed", func() {
				So(conn.closedCount, ShouldEqual, 1)
			})
		})
		Convey("When read succeeds several times", func() {
			ch <- "ids"
			ch <- "ids2"
			ch <- "id1"
			close(ch)
			<-fc
			Convey("Then the connection is closed", func() {
				So(conn.closedCount, ShouldEqual, 1)
			})
			Convey("Then known job is sent", func() {
				So(conn.sentCount(), ShouldEqual, 1)
			})
			Convey("Maps are empty", func() {
				ids, conns := hub.counts()
				So(ids, ShouldEqual, 0)
				So(conns, ShouldEqual, 0)
			})
		})
		Convey("When subscribed to a job", func() {
			ch <- "id1"
			<-readCh
			<-readCh // wait for next read
			c, ok := hub.getConnections("id1")
			So(ok, ShouldBeTrue)
			So(c[conn], ShouldBeTrue)
			So(conn.sentCount(), ShouldEqual, 1)

			Convey("Then job change is pushed", func() {
				hub.Notify(events.Event{Type: events.Job, ID: "id1"})
				So(conn.sentCount(), ShouldEqual, 2)
			})
			Convey("Then other jobs are not pushed", func() {
				hub.Notify(events.Event{Type: events.Job, ID: "id2"})
				hub.Notify(events.Event{Type: events.Settings})
				So(conn.sentCount(), ShouldEqual, 1)
			})
			Convey("Then removal is pushed", func() {
				hub.Notify(events.Event{Type: events.JobRemoved, ID: "id1"})
				So(conn.sentCount(), ShouldEqual, 2)
				So(conn.last(), ShouldResemble, removedMsg{ID: "id1", Removed: true})
			})
			close(ch)
			<-fc
		})
		Convey("When subscribed to all jobs", func() {
			ch <- allJobs
			<-readCh
			<-readCh
			hub.Notify(events.Event{Type: events.Job, ID: "id1"})
			hub.Notify(events.Event{Type: events.Job, ID: "missing"})
			hub.Notify(events.Event{Type: events.Clear})
			So(conn.sentCount(), ShouldEqual, 2)
			close(ch)
			<-fc
		})
		Convey("When connection with same id arrives", func() {
			ch <- "id4"
			ch1 := make(chan string)
			readCh1 := make(chan bool)
			fc1 := make(chan bool)
			conn1 := newWsConnMock(ch1, readCh1)
			go func() {
				hub.handleConnection(conn1)
				fc1 <- true
			}()
			ch1 <- "id4"
			<-readCh1
			<-readCh1
			c, ok := hub.getConnections("id4")
			So(ok, ShouldBeTrue)
			So(c[conn], ShouldBeTrue)
			So(c[conn1], ShouldBeTrue)
			ids, conns := hub.counts()
			So(ids, ShouldEqual, 1)
			So(conns, ShouldEqual, 2)

			close(ch1)
			close(ch)
			<-fc
			<-fc1
			_, ok = hub.getConnections("id4")
			So(ok, ShouldBeFalse)
			So(conn.closedCount, ShouldEqual, 1)
			So(conn1.closedCount, ShouldEqual, 1)
		})
	})
}

func TestSend_FailingConnection(t *testing.T) {
	Convey("Given a failing connection", t, func() {
		hub := NewHub(jobsMock{"id1": {ID: "id1"}})
		conn := newWsConnMock(nil, nil)
		conn.err = errors.New("olia")
		hub.saveConnection(conn, "id1")
		Convey("Notify does not panic", func() {
			So(func() { hub.Notify(events.Event{Type: events.Job, ID: "id1"}) }, ShouldNotPanic)
		})
	})
}

type jobsMock map[string]engine.Job

func (m jobsMock) Job(id string) (engine.Job, bool) {
	j, ok := m[id]
	return j, ok
}

type wsConnMock struct {
	sCh         chan<- bool   // start
	valueCh     <-chan string // value
	closedCount int
	err         error

	lock sync.Mutex
	sent []interface{}
}

func newWsConnMock(valueCh <-chan string, sCh chan<- bool) *wsConnMock {
	return &wsConnMock{valueCh: valueCh, sCh: sCh}
}

func (f *wsConnMock) ReadMessage() (messageType int, p []byte, err error) {
	go func() { f.sCh <- true }()
	s, ok := <-f.valueCh
	if ok {
		return 1, []byte(s), nil
	}
	return 1, nil, errors.New("closed")
}

func (f *wsConnMock) Close() error {
	f.closedCount++
	return nil
}

func (f *wsConnMock) WriteJSON(v interface{}) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.sent = append(f.sent, v)
	return f.err
}

func (f *wsConnMock) sentCount() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return len(f.sent)
}

func (f *wsConnMock) last() interface{} {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.sent[len(f.sent)-1]
}
