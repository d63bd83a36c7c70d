package media

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var audioContentTypes = map[string]string{
	"mp3":  "audio/mpeg",
	"flac": "audio/flac",
	"ogg":  "audio/ogg",
	"m4a":  "audio/mp4",
	"wav":  "audio/wav",
}

var imageContentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// AudioContentType maps a file extension (without dot) to its MIME type.
// Unknown extensions fall back to audio/mpeg.
func AudioContentType(ext string) string {
	if ct, ok := audioContentTypes[strings.ToLower(ext)]; ok {
		return ct
	}
	return "audio/mpeg"
}

// ExtensionForContentType maps an audio MIME type back to its canonical
// file extension. Unknown types fall back to mp3.
func ExtensionForContentType(contentType string) string {
	base := strings.ToLower(contentType)
	if i := strings.Index(base, ";"); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	for ext, ct := range audioContentTypes {
		if ct == base {
			return ext
		}
	}
	return "mp3"
}

// ImageContentType maps a stored cover file extension to its MIME type.
func ImageContentType(ext string) string {
	if ct, ok := imageContentTypes[strings.ToLower(ext)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ServeRange writes a local audio file honoring a single bytes=start-end
// range. Without a Range header the whole file goes out as 200 with
// Accept-Ranges advertised; with one, the exact slice goes out as 206 with
// a Content-Range header. Unsatisfiable ranges get 416.
func ServeRange(w http.ResponseWriter, r *http.Request, path string) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "Audio not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to read audio", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "Failed to read audio", http.StatusInternalServerError)
		return
	}
	size := info.Size()

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	w.Header().Set("Content-Type", AudioContentType(ext))
	w.Header().Set("Accept-Ranges", "bytes")

	rangeHeader := r.Header.Get("Range")
	if rangeHeader == "" {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
		w.WriteHeader(http.StatusOK)
		io.Copy(w, f)
		return
	}

	start, end, err := parseRange(rangeHeader, size)
	if err != nil {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		http.Error(w, "Requested range not satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return
	}

	length := end - start + 1
	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, size))
	w.Header().Set("Content-Length", strconv.FormatInt(length, 10))
	w.WriteHeader(http.StatusPartialContent)

	if _, err := f.Seek(start, io.SeekStart); err != nil {
		return
	}
	io.CopyN(w, f, length)
}

// parseRange parses a bytes=start-end header where end is optional and
// defaults to the last byte of the file.
func parseRange(header string, size int64) (start, end int64, err error) {
	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return 0, 0, fmt.Errorf("unsupported range unit: %s", header)
	}

	startStr, endStr, ok := strings.Cut(spec, "-")
	if !ok {
		return 0, 0, fmt.Errorf("malformed range: %s", header)
	}

	start, err = strconv.ParseInt(strings.TrimSpace(startStr), 10, 64)
	if err != nil || start < 0 || start >= size {
		return 0, 0, fmt.Errorf("range start out of bounds: %s", header)
	}

	end = size - 1
	if s := strings.TrimSpace(endStr); s != "" {
		end, err = strconv.ParseInt(s, 10, 64)
		if err != nil || end < start {
			return 0, 0, fmt.Errorf("malformed range end: %s", header)
		}
		if end >= size {
			end = size - 1
		}
	}
	return start, end, nil
}
