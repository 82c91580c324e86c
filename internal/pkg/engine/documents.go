package engine

import (
	"strings"
	"unicode/utf8"

	"github.com/airenas/audiobook/internal/pkg/events"
)

const pastedPageChars = 2000

// AddDocuments creates one document per input
func (e *Engine) AddDocuments(inputs []FileInput) []Document {
	e.lock.Lock()
	res := make([]Document, 0, len(inputs))
	evs := make([]events.Event, 0, len(inputs))
	for _, in := range inputs {
		d := &Document{ID: e.newID(), Name: in.Name, Size: in.Size, Type: in.Type,
			Pages: e.pageCounter(in), CreatedAt: e.scheduler.Now()}
		e.docs = append(e.docs, d)
		res = append(res, *d)
		evs = append(evs, e.eventNoSync(events.Document, d.ID))
	}
	e.lock.Unlock()

	e.notify(evs...)
	return res
}

// AddPastedText creates a plain text document, returns false if title or content is blank
func (e *Engine) AddPastedText(content, title string) (Document, bool) {
	if strings.TrimSpace(content) == "" || strings.TrimSpace(title) == "" {
		return Document{}, false
	}
	l := utf8.RuneCountInString(content)
	e.lock.Lock()
	d := &Document{ID: e.newID(), Name: title + ".txt", Size: int64(l), Type: "text/plain",
		Pages: (l + pastedPageChars - 1) / pastedPageChars, Content: content, CreatedAt: e.scheduler.Now()}
	e.docs = append(e.docs, d)
	ev := e.eventNoSync(events.Document, d.ID)
	e.lock.Unlock()

	e.notify(ev)
	return *d, true
}

// RemoveDocument drops the document, jobs referencing it are kept
func (e *Engine) RemoveDocument(id string) bool {
	e.lock.Lock()
	found := false
	for i, d := range e.docs {
		if d.ID == id {
			e.docs = append(e.docs[:i], e.docs[i+1:]...)
			found = true
			break
		}
	}
	ev := e.eventNoSync(events.Document, id)
	e.lock.Unlock()

	if found {
		e.notify(ev)
	}
	return found
}

// Documents returns documents in creation order
func (e *Engine) Documents() []Document {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.documentsNoSync()
}

// Document returns one document copy
func (e *Engine) Document(id string) (Document, bool) {
	e.lock.Lock()
	defer e.lock.Unlock()
	if d := e.findDocumentNoSync(id); d != nil {
		return *d, true
	}
	return Document{}, false
}

func (e *Engine) documentsNoSync() []Document {
	res := make([]Document, 0, len(e.docs))
	for _, d := range e.docs {
		res = append(res, *d)
	}
	return res
}

func (e *Engine) findDocumentNoSync(id string) *Document {
	for _, d := range e.docs {
		if d.ID == id {
			return d
		}
	}
	return nil
}
