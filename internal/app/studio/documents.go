package studio

import (
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/airenas/audiobook/internal/pkg/cmdapp"
	"github.com/airenas/audiobook/internal/pkg/engine"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

const (
	prmFile      = "file"
	maxFiles     = 10
	maxFileBytes = 20 << 20
)

var acceptedTypes = map[string]string{
	"text/plain":           ".txt",
	"application/pdf":      ".pdf",
	"application/epub+zip": ".epub",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

type uploadHandler struct {
	data *ServiceData
}

func (h uploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cmdapp.Log.Infof("Upload from %s", r.Host)

	r.Body = http.MaxBytesReader(w, r.Body, maxFiles*maxFileBytes+(1<<20))
	err := r.ParseMultipartForm(32 << 20)
	if err != nil {
		http.Error(w, "Can't parse MultipartForm", http.StatusBadRequest)
		cmdapp.Log.Error(errors.Wrap(err, "Can't parse MultipartForm"))
		return
	}
	defer cleanFiles(r.MultipartForm)

	if c := countFiles(r.MultipartForm); c > maxFiles {
		http.Error(w, "Too many files", http.StatusBadRequest)
		cmdapp.Log.Errorf("Too many files: %d", c)
		return
	}
	fHeaders, err := takeFiles(r, prmFile)
	if err != nil && len(fHeaders) == 0 {
		http.Error(w, "No file", http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}
	if err != nil {
		http.Error(w, "Wrong input form", http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}
	inputs, err := validateFiles(fHeaders)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}
	writeJSON(w, h.data.Engine.AddDocuments(inputs))
}

func cleanFiles(f *multipart.Form) {
	if f != nil {
		f.RemoveAll()
	}
}

func countFiles(f *multipart.Form) int {
	res := 0
	if f != nil {
		for _, fhs := range f.File {
			res += len(fhs)
		}
	}
	return res
}

func takeFiles(r *http.Request, paramName string) ([]*multipart.FileHeader, error) {
	fhRes := make([]*multipart.FileHeader, 0)
	for i := 1; i <= maxFiles; i++ {
		name := paramName
		if i > 1 {
			name = paramName + strconv.Itoa(i)
		}
		file, handler, err := r.FormFile(name)
		if err == http.ErrMissingFile {
			if i == 1 {
				return nil, errors.Wrapf(err, "no form param %s", name)
			}
			break
		}
		if err != nil {
			return fhRes, errors.Wrapf(err, "error reading form param %s", name)
		}
		file.Close()
		fhRes = append(fhRes, handler)
	}
	return fhRes, nil
}

func validateFiles(fHeaders []*multipart.FileHeader) ([]engine.FileInput, error) {
	res := make([]engine.FileInput, 0, len(fHeaders))
	for _, h := range fHeaders {
		if h.Size > maxFileBytes {
			return nil, errors.Errorf("file too large: %s", h.Filename)
		}
		t, ok := fileType(h)
		if !ok {
			return nil, errors.Errorf("wrong file type: %s", h.Filename)
		}
		res = append(res, engine.FileInput{Name: h.Filename, Size: h.Size, Type: t})
	}
	return res, nil
}

// fileType checks part content type, falls back to the file extension
func fileType(h *multipart.FileHeader) (string, bool) {
	ct, _, err := mime.ParseMediaType(h.Header.Get("Content-Type"))
	if err == nil {
		if _, ok := acceptedTypes[ct]; ok {
			return ct, true
		}
	}
	ext := strings.ToLower(filepath.Ext(h.Filename))
	for t, e := range acceptedTypes {
		if e == ext {
			return t, true
		}
	}
	return "", false
}

type textInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type textHandler struct {
	data *ServiceData
}

func (h textHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var in textInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		http.Error(w, "No title", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(in.Content) == "" {
		http.Error(w, "No content", http.StatusBadRequest)
		return
	}
	d, ok := h.data.Engine.AddPastedText(in.Content, in.Title)
	if !ok {
		http.Error(w, "Can't add text", http.StatusBadRequest)
		return
	}
	writeJSON(w, d)
}

func (data *ServiceData) documents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, data.Engine.Documents())
}

func (data *ServiceData) removeDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !data.Engine.RemoveDocument(id) {
		http.Error(w, "No document "+id, http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
