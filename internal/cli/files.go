package cli

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"tutorlink/internal/api"
)

const docxType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// readFile carga un archivo local para subirlo. El tipo sale de la extensión y, si no, del contenido.
func readFile(path string) (api.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return api.File{}, fmt.Errorf("read %s: %w", path, err)
	}
	name := filepath.Base(path)
	return api.File{Name: name, ContentType: contentType(name, data), Data: data}, nil
}

func contentType(name string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".docx" {
		return docxType
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return strings.TrimSpace(strings.SplitN(ct, ";", 2)[0])
	}
	return http.DetectContentType(data)
}
