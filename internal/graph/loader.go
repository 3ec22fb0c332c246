package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// container mirrors the map file layout. Ids may be numbers or strings and
// are coerced to strings.
type container struct {
	Nodes []struct {
		ID json.RawMessage `json:"id"`
		X  *float64        `json:"x"`
		Y  *float64        `json:"y"`
	} `json:"nodes"`
	Links []struct {
		Source json.RawMessage `json:"source"`
		Target json.RawMessage `json:"target"`
		Length *float64        `json:"length"`
	} `json:"links"`
}

// LoadFile reads a map file from disk. Files ending in .gz are
// decompressed first.
func LoadFile(fileName string) (*Graph, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to open map file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(fileName, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer zr.Close()
		r = zr
	}
	return Decode(r)
}

// Decode parses a map document and builds the graph from it.
func Decode(r io.Reader) (*Graph, error) {
	var c container
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse map JSON: %w", err)
	}

	var errs []error
	nodes := make([]Node, 0, len(c.Nodes))
	for i, raw := range c.Nodes {
		id, err := coerceID(raw.ID)
		if err != nil {
			errs = append(errs, &ValidationError{Kind: "node", Index: i, Field: "id", Reason: err.Error()})
			continue
		}
		if raw.X == nil || raw.Y == nil {
			errs = append(errs, &ValidationError{Kind: "node", Index: i, Field: "x/y", Reason: "is required"})
			continue
		}
		nodes = append(nodes, Node{ID: id, Lon: *raw.X, Lat: *raw.Y})
	}

	links := make([]Link, 0, len(c.Links))
	for i, raw := range c.Links {
		src, err := coerceID(raw.Source)
		if err != nil {
			errs = append(errs, &ValidationError{Kind: "link", Index: i, Field: "source", Reason: err.Error()})
			continue
		}
		dst, err := coerceID(raw.Target)
		if err != nil {
			errs = append(errs, &ValidationError{Kind: "link", Index: i, Field: "target", Reason: err.Error()})
			continue
		}
		if raw.Length == nil {
			errs = append(errs, &ValidationError{Kind: "link", Index: i, Field: "length", Reason: "is required"})
			continue
		}
		links = append(links, Link{Source: src, Target: dst, Length: *raw.Length})
	}

	g, err := Build(nodes, links)
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return g, nil
}

func coerceID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("is required")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		if s == "" {
			return "", fmt.Errorf("is required")
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("must be a string or a number")
	}
	// 42.0 and 42 name the same node
	if f, err := strconv.ParseFloat(n.String(), 64); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10), nil
	}
	return n.String(), nil
}

type fileNode struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Encode writes g in the map file layout. Ids are written as strings.
func Encode(w io.Writer, g *Graph) error {
	doc := struct {
		Nodes []fileNode `json:"nodes"`
		Links []Link     `json:"links"`
	}{
		Nodes: make([]fileNode, 0, len(g.nodes)),
		Links: g.Links(),
	}
	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, fileNode{ID: n.ID, X: n.Lon, Y: n.Lat})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// SaveFile writes g to disk, gzip compressed when the name ends in .gz.
func SaveFile(fileName string, g *Graph) error {
	f, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("failed to create map file: %w", err)
	}
	if strings.HasSuffix(fileName, ".gz") {
		zw := gzip.NewWriter(f)
		err = Encode(zw, g)
		if cerr := zw.Close(); err == nil {
			err = cerr
		}
	} else {
		err = Encode(f, g)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
