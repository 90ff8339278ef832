// Package twodm implements the 2DM driver: a line-oriented text mesh format
// with sparse, 1-based entity IDs. Loading is a two-pass parse (a counting
// pass that pre-sizes the entity containers, then a parsing pass that fills
// them) followed by a resolution pass that rewrites format-native vertex IDs
// into dense container indices.
package twodm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"math"
	"strings"

	billy "github.com/go-git/go-billy/v5"

	"github.com/meshkit-io/meshkit/api"
	"github.com/meshkit-io/meshkit/internal/memmesh"
	"github.com/meshkit-io/meshkit/internal/rawio"
)

const (
	driverName  = "2DM"
	headerToken = "MESH2D"
)

// Element tokens the format defines but this driver does not implement.
// Their presence anywhere aborts the whole load: partial support is not
// offered.
var unsupportedTokens = map[string]bool{
	"E3L": true,
	"E6T": true,
	"E8Q": true,
	"E9Q": true,
}

// Driver reads and writes 2DM mesh files. A Driver carries no mutable state
// that survives a call, except the last-processed URI kept for diagnostics.
type Driver struct {
	fs      billy.Filesystem
	logger  *log.Logger
	lastURI string
}

// New returns a 2DM driver reading through the given filesystem.
func New(fs billy.Filesystem) *Driver {
	return &Driver{fs: fs, logger: log.Default()}
}

// SetLogger redirects non-fatal parse warnings.
func (d *Driver) SetLogger(l *log.Logger) { d.logger = l }

func (d *Driver) Info() api.Info {
	return api.Info{
		Name:         driverName,
		Description:  "2DM Mesh File",
		Glob:         "*.2dm",
		Capabilities: api.CapReadMesh | api.CapSaveMesh,
	}
}

// Probe peeks at the header: the first non-empty line must begin with the
// MESH2D token. It never reads past the header.
func (d *Driver) Probe(uri string) bool {
	f, err := d.fs.Open(uri)
	if err != nil {
		return false
	}
	defer f.Close()

	line, ok := headerLine(bufio.NewScanner(f))
	return ok && strings.HasPrefix(line, headerToken)
}

// Load parses the file into a normalized mesh. It returns a fully valid
// mesh or an error, never both.
func (d *Driver) Load(uri string) (api.Mesh, error) {
	d.lastURI = uri

	f, err := d.fs.Open(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", api.ErrFileNotFound, uri, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	if line, ok := headerLine(sc); !ok || !strings.HasPrefix(line, headerToken) {
		return nil, fmt.Errorf("%w: %s is not a 2DM file", api.ErrUnrecognizedFormat, uri)
	}

	counts, err := countEntities(sc)
	if err != nil {
		return nil, err
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: rewind %s: %v", api.ErrCorruptData, uri, err)
	}

	p := &parser{
		driver:    d,
		vertices:  make([]api.Vertex, counts.vertices),
		edges:     make([]api.Edge, counts.edges),
		faces:     make([]api.Face, counts.faces),
		idToIndex: make(map[int]int),
		maxID:     -1,
	}
	if err := p.run(f); err != nil {
		return nil, err
	}
	p.resolveReferences()

	base := memmesh.New(driverName, uri, p.vertices, p.edges, p.faces)
	memmesh.AddScalarDatasetGroup(base, p.faceElevation, "Bed Elevation (Face)", api.OnFaces)
	memmesh.AddBedElevationDatasetGroup(base, p.vertices)

	return &Mesh{
		Mesh:      base,
		idToIndex: p.idToIndex,
		maxID:     p.maxID,
	}, nil
}

// entityCounts holds the exact container sizes produced by the counting
// pass.
type entityCounts struct {
	vertices, edges, faces int
}

// countEntities streams the rest of the file once, classifying each line by
// its leading token. An unsupported element token anywhere aborts the load.
func countEntities(sc *bufio.Scanner) (entityCounts, error) {
	var c entityCounts
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch tok := fields[0]; {
		case tok == "E3T" || tok == "E4Q":
			c.faces++
		case tok == "ND":
			c.vertices++
		case tok == "E2L":
			c.edges++
		case unsupportedTokens[tok]:
			return c, fmt.Errorf("%w: element %s", api.ErrUnsupportedElement, tok)
		}
	}
	if err := sc.Err(); err != nil {
		return c, fmt.Errorf("%w: %v", api.ErrCorruptData, err)
	}
	return c, nil
}

// parser carries the state of the parsing pass. Face and edge vertex
// references hold format-native 0-based IDs until resolveReferences rewrites
// them into dense indices.
type parser struct {
	driver *Driver

	vertices []api.Vertex
	edges    []api.Edge
	faces    []api.Face

	// faceElevation is allocated lazily, NaN-filled, the first time a face
	// line carries the optional trailing elevation field.
	faceElevation []float64

	idToIndex map[int]int
	maxID     int

	vertexIndex  int
	edgeIndex    int
	faceIndex    int
	lastVertexID int
}

func (p *parser) run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		var err error
		switch fields[0] {
		case "E3T":
			err = p.parseFace(fields, 3)
		case "E4Q":
			err = p.parseFace(fields, 4)
		case "E2L":
			err = p.parseEdge(fields)
		case "ND":
			err = p.parseVertex(fields)
		}
		if err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%w: %v", api.ErrCorruptData, err)
	}
	return nil
}

// parseVertex handles "ND <id> <x> <y> <z>". IDs are 1-based in the file.
// Non-zero IDs must be strictly increasing: an out-of-order node ID is a
// corruption signal, not a recoverable condition.
func (p *parser) parseVertex(fields []string) error {
	if len(fields) < 5 {
		return fmt.Errorf("%w: short vertex line %q", api.ErrCorruptData, strings.Join(fields, " "))
	}
	id := rawio.ParseIndex(fields[1])
	if id != 0 {
		if p.lastVertexID != 0 && id <= p.lastVertexID {
			return fmt.Errorf("%w: vertex IDs not ordered (%d after %d)", api.ErrCorruptData, id, p.lastVertexID)
		}
		p.lastVertexID = id
	}
	p.recordIDGap(id-1, p.vertexIndex)

	p.vertices[p.vertexIndex] = api.Vertex{
		X: rawio.ParseDouble(fields[2]),
		Y: rawio.ParseDouble(fields[3]),
		Z: rawio.ParseDouble(fields[4]),
	}
	p.vertexIndex++
	return nil
}

// recordIDGap notes an ID→index mapping whenever the 0-based file ID does
// not already equal the container slot being filled. A duplicate ID keeps
// its first mapping; the later occurrence is dropped with a warning.
func (p *parser) recordIDGap(id, index int) {
	if id > p.maxID {
		p.maxID = id
	}
	if id == index {
		return
	}
	if _, seen := p.idToIndex[id]; seen {
		p.driver.logger.Printf("%s: duplicate vertex ID %d, keeping first occurrence", driverName, id+1)
		return
	}
	p.idToIndex[id] = index
}

// parseFace handles "E3T <id> <v1..v3> <material> [elevation]" and the
// four-vertex E4Q variant. Vertex references stay format-native here.
func (p *parser) parseFace(fields []string, vertexCount int) error {
	if len(fields) < vertexCount+2 {
		return fmt.Errorf("%w: short face line %q", api.ErrCorruptData, strings.Join(fields, " "))
	}
	face := make(api.Face, vertexCount)
	for i := range face {
		face[i] = rawio.ParseIndex(fields[i+2]) - 1
	}
	p.faces[p.faceIndex] = face

	// A field beyond the material ID is a per-face elevation override.
	if len(fields) == vertexCount+4 {
		if p.faceElevation == nil {
			p.faceElevation = make([]float64, len(p.faces))
			for i := range p.faceElevation {
				p.faceElevation[i] = math.NaN()
			}
		}
		p.faceElevation[p.faceIndex] = rawio.ParseDouble(fields[vertexCount+3])
	}
	p.faceIndex++
	return nil
}

// parseEdge handles "E2L <id> <v1> <v2> <material>".
func (p *parser) parseEdge(fields []string) error {
	if len(fields) < 5 {
		return fmt.Errorf("%w: short edge line %q", api.ErrCorruptData, strings.Join(fields, " "))
	}
	p.edges[p.edgeIndex] = api.Edge{
		Start: rawio.ParseIndex(fields[2]) - 1,
		End:   rawio.ParseIndex(fields[3]) - 1,
	}
	p.edgeIndex++
	return nil
}

// resolveReferences rewrites format-native vertex IDs into dense indices.
// Unmapped IDs fall back to identity, covering the common contiguous-ID
// case; a reference at or beyond the vertex count is kept but flagged.
// Edge endpoints go through the same resolution as face references.
func (p *parser) resolveReferences() {
	for _, face := range p.faces {
		for i, id := range face {
			face[i] = p.resolve(id)
		}
	}
	for i := range p.edges {
		p.edges[i].Start = p.resolve(p.edges[i].Start)
		p.edges[i].End = p.resolve(p.edges[i].End)
	}
}

func (p *parser) resolve(id int) int {
	if index, ok := p.idToIndex[id]; ok {
		return index
	}
	if id >= len(p.vertices) {
		p.driver.logger.Printf("%s: invalid node reference %d (mesh has %d vertices)", driverName, id+1, len(p.vertices))
	}
	return id
}

// headerLine returns the first non-empty line, stripped of whitespace and a
// leading BOM.
func headerLine(sc *bufio.Scanner) (string, bool) {
	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\uFEFF"))
		if line != "" {
			return line, true
		}
	}
	return "", false
}
