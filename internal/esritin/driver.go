// Package esritin implements the ESRI TIN driver: one logical triangulated
// surface split across fixed-named sibling binary files in a directory. The
// load correlates the files by positional raw index, drops faces excluded by
// the mask file, and compacts the surviving vertex indices into a dense
// 0-based range.
package esritin

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/RoaringBitmap/roaring"
	billy "github.com/go-git/go-billy/v5"

	"github.com/meshkit-io/meshkit/api"
	"github.com/meshkit-io/meshkit/internal/memmesh"
	"github.com/meshkit-io/meshkit/internal/rawio"
)

const driverName = "ESRI_TIN"

// COM class ID Esri writes for an unknown coordinate system.
const unknownCRSSentinel = "{B286C06B-0879-11D2-AACA-00C04FA33C20}"

// Fixed sibling file names inside a TIN directory.
const (
	xyFileName    = "tnxy.adf"
	zFileName     = "tnz.adf"
	faceFileName  = "tnod.adf"
	maskFileName  = "tmsk.adf"
	maskXFileName = "tmsx.adf"
	hullFileName  = "thul.adf"
	denvFileName  = "tdenv.adf"
	denv9FileName = "tdenv9.adf"
	crsFileName   = "prj.adf"
)

// All multi-byte values in the sibling files are big-endian on disk; every
// read is normalized through this order, never via native casts.
var fileOrder binary.ByteOrder = binary.BigEndian

// Driver reads Esri TIN directories. The URI is any path inside the TIN
// directory (conventionally one of the .adf files).
type Driver struct {
	fs      billy.Filesystem
	logger  *log.Logger
	lastURI string
}

// New returns an ESRI TIN driver reading through the given filesystem.
func New(fs billy.Filesystem) *Driver {
	return &Driver{fs: fs, logger: log.Default()}
}

// SetLogger redirects non-fatal warnings.
func (d *Driver) SetLogger(l *log.Logger) { d.logger = l }

func (d *Driver) Info() api.Info {
	return api.Info{
		Name:         driverName,
		Description:  "Esri TIN",
		Glob:         "*.adf",
		Capabilities: api.CapReadMesh,
	}
}

func (d *Driver) sibling(uri, name string) string {
	return filepath.Join(filepath.Dir(uri), name)
}

// Probe is a cheap existence check: the four core sibling files must all be
// openable. It does not validate their internal structure.
func (d *Driver) Probe(uri string) bool {
	for _, name := range []string{xyFileName, zFileName, faceFileName, hullFileName} {
		f, err := d.fs.Open(d.sibling(uri, name))
		if err != nil {
			return false
		}
		f.Close()
	}
	return true
}

// Load reconstructs the triangulated surface. Passes, in order: read the
// total raw index count, locate the mask metadata via end-of-file trailers,
// decode faces against the mask, compact wanted raw indices, stream the
// coordinate and elevation files in lockstep, and remap face indices.
func (d *Driver) Load(uri string) (api.Mesh, error) {
	d.lastURI = uri

	total, err := d.readTotalIndexCount(uri)
	if err != nil {
		return nil, err
	}

	faces, wanted, err := d.decodeFaces(uri, total)
	if err != nil {
		return nil, err
	}

	vertices, err := d.readVertices(uri, total, wanted)
	if err != nil {
		return nil, err
	}

	// Raw→dense correction: a wanted raw index's dense index is its rank
	// among wanted indices, so dense indices preserve raw relative order.
	for _, face := range faces {
		for i, raw := range face {
			face[i] = int(wanted.Rank(uint32(raw))) - 1
		}
	}

	mesh := memmesh.New(driverName, uri, vertices, nil, faces)
	memmesh.AddBedElevationDatasetGroup(mesh, vertices)
	if groups := mesh.DatasetGroups(); len(groups) > 0 {
		groups[len(groups)-1].Name = "Altitude"
	}
	mesh.SetCRS(d.readCRS(uri))

	return mesh, nil
}

// readTotalIndexCount reads the global vertex-count header: the total raw
// index count, superpoints and isolated vertices included.
func (d *Driver) readTotalIndexCount(uri string) (int, error) {
	f, err := d.fs.Open(d.sibling(uri, denvFileName))
	if err != nil {
		f, err = d.fs.Open(d.sibling(uri, denv9FileName))
		if err != nil {
			return 0, fmt.Errorf("%w: no %s or %s", api.ErrUnrecognizedFormat, denvFileName, denv9FileName)
		}
	}
	defer f.Close()

	total, err := rawio.ReadInt32(f, fileOrder)
	if err != nil {
		return 0, fmt.Errorf("%w: short vertex-count header: %v", api.ErrUnrecognizedFormat, err)
	}
	if total < 0 {
		return 0, fmt.Errorf("%w: negative vertex count %d", api.ErrCorruptData, total)
	}
	return int(total), nil
}

// maskReader yields one validity bit per face. Both the metadata file and
// the mask file store their pointers as trailers, so the layout is located
// by seeking backward from the end of each file.
type maskReader struct {
	r         io.Reader
	word      uint32
	bitsTotal int32
	consumed  int
}

func (d *Driver) openMask(uri string) (billy.File, *maskReader, error) {
	msx, err := d.fs.Open(d.sibling(uri, maskXFileName))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", api.ErrFileNotFound, maskXFileName)
	}
	defer msx.Close()

	msk, err := d.fs.Open(d.sibling(uri, maskFileName))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", api.ErrFileNotFound, maskFileName)
	}

	ok := false
	defer func() {
		if !ok {
			msk.Close()
		}
	}()

	// The metadata file's last 4 bytes give the backward offset of the mask
	// section inside the mask file.
	if _, err := msx.Seek(-4, io.SeekEnd); err != nil {
		return nil, nil, fmt.Errorf("%w: %s trailer: %v", api.ErrUnrecognizedFormat, maskXFileName, err)
	}
	maskBegin, err := rawio.ReadInt32(msx, fileOrder)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s trailer: %v", api.ErrUnrecognizedFormat, maskXFileName, err)
	}

	if _, err := msk.Seek(int64(-maskBegin)*2, io.SeekEnd); err != nil {
		return nil, nil, fmt.Errorf("%w: %s mask section: %v", api.ErrUnrecognizedFormat, maskFileName, err)
	}
	if _, err := rawio.ReadInt32(msk, fileOrder); err != nil { // mask word count
		return nil, nil, fmt.Errorf("%w: %s mask header: %v", api.ErrUnrecognizedFormat, maskFileName, err)
	}
	var skip [4]byte // unused field between the two counts
	if _, err := io.ReadFull(msk, skip[:]); err != nil {
		return nil, nil, fmt.Errorf("%w: %s mask header: %v", api.ErrUnrecognizedFormat, maskFileName, err)
	}
	bits, err := rawio.ReadInt32(msk, fileOrder)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s mask header: %v", api.ErrUnrecognizedFormat, maskFileName, err)
	}

	ok = true
	return msk, &maskReader{r: msk, bitsTotal: bits}, nil
}

// next returns true when the current face is masked out. A fresh word is
// read for every 32 bits consumed; the word shifts right one bit per face
// whether or not the face was kept.
func (m *maskReader) next() (bool, error) {
	if m.consumed%32 == 0 && int32(m.consumed) < m.bitsTotal {
		v, err := rawio.ReadInt32(m.r, fileOrder)
		if err != nil {
			return false, fmt.Errorf("%w: mask words exhausted: %v", api.ErrUnrecognizedFormat, err)
		}
		m.word = uint32(v)
	}
	masked := m.word&1 == 1
	m.consumed++
	m.word >>= 1
	return masked, nil
}

// decodeFaces streams the face topology file against the mask. It returns
// the kept faces (still holding raw indices) and the set of raw vertex
// indices any kept face references.
func (d *Driver) decodeFaces(uri string, total int) ([]api.Face, *roaring.Bitmap, error) {
	ff, err := d.fs.Open(d.sibling(uri, faceFileName))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", api.ErrFileNotFound, faceFileName)
	}
	defer ff.Close()

	msk, mask, err := d.openMask(uri)
	if err != nil {
		return nil, nil, err
	}
	defer msk.Close()

	fr := bufio.NewReader(ff)
	wanted := roaring.New()
	var faces []api.Face

	for {
		masked, err := mask.next()
		if err != nil {
			return nil, nil, err
		}

		face := make(api.Face, 0, 3)
		for i := 0; i < 3; i++ {
			index, err := rawio.ReadInt32(fr, fileOrder)
			if errors.Is(err, io.EOF) && i == 0 {
				// Clean end of the face stream.
				return faces, wanted, nil
			}
			if err != nil {
				return nil, nil, fmt.Errorf("%w: incomplete face record: %v", api.ErrCorruptData, err)
			}
			raw := int(index) - 1 // indices are 1-based in the file
			if raw < 0 || raw >= total {
				return nil, nil, fmt.Errorf("%w: vertex index %d outside raw range [0,%d)", api.ErrCorruptData, raw, total)
			}
			face = append(face, raw)
		}

		if !masked {
			faces = append(faces, face)
			for _, raw := range face {
				wanted.Add(uint32(raw))
			}
		}
	}
}

// readVertices streams the coordinate file (paired x,y doubles) and the
// elevation file (one single-precision value, upcast) in lockstep, one
// record per raw index, keeping only wanted records at their dense index.
func (d *Driver) readVertices(uri string, total int, wanted *roaring.Bitmap) ([]api.Vertex, error) {
	xyf, err := d.fs.Open(d.sibling(uri, xyFileName))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", api.ErrFileNotFound, xyFileName)
	}
	defer xyf.Close()

	zf, err := d.fs.Open(d.sibling(uri, zFileName))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", api.ErrFileNotFound, zFileName)
	}
	defer zf.Close()

	xy := bufio.NewReader(xyf)
	z := bufio.NewReader(zf)

	vertices := make([]api.Vertex, wanted.GetCardinality())
	filled := 0
	exhausted := false

	for raw := 0; raw < total; raw++ {
		x, err := rawio.ReadFloat64(xy, fileOrder)
		if errors.Is(err, io.EOF) {
			exhausted = true
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: truncated coordinate record %d: %v", api.ErrCorruptData, raw, err)
		}
		y, err := rawio.ReadFloat64(xy, fileOrder)
		if err != nil {
			return nil, fmt.Errorf("%w: truncated coordinate record %d: %v", api.ErrCorruptData, raw, err)
		}
		zv, err := rawio.ReadFloat32(z, fileOrder)
		if err != nil {
			return nil, fmt.Errorf("%w: elevation record %d missing: %v", api.ErrCorruptData, raw, err)
		}

		if wanted.Contains(uint32(raw)) {
			dense := int(wanted.Rank(uint32(raw))) - 1
			vertices[dense] = api.Vertex{X: x, Y: y, Z: float64(zv)}
			filled++
		}
	}

	// The two files must end together: an elevation record with no paired
	// coordinate record is a correlation failure.
	if exhausted {
		if _, err := rawio.ReadFloat32(z, fileOrder); err == nil {
			return nil, fmt.Errorf("%w: elevation records outnumber coordinate records", api.ErrCorruptData)
		}
	}
	if filled < len(vertices) {
		return nil, fmt.Errorf("%w: %d referenced vertices missing from coordinate file", api.ErrCorruptData, len(vertices)-filled)
	}
	return vertices, nil
}

// readCRS returns the first line of the coordinate-system sidecar, verbatim
// and unparsed. The Esri unknown-CRS sentinel maps to empty; a missing file
// is not an error.
func (d *Driver) readCRS(uri string) string {
	f, err := d.fs.Open(d.sibling(uri, crsFileName))
	if err != nil {
		return ""
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return ""
	}
	crs := strings.TrimSpace(sc.Text())
	if crs == unknownCRSSentinel {
		return ""
	}
	return crs
}

// Superpoints reads the excluded-point list: raw vertex indices present in
// the source files but excluded from the final topology. The list ends at a
// -1 terminator or end of file.
func (d *Driver) Superpoints(uri string) (*roaring.Bitmap, error) {
	f, err := d.fs.Open(d.sibling(uri, hullFileName))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", api.ErrFileNotFound, hullFileName)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	set := roaring.New()
	for {
		v, err := rawio.ReadInt32(r, fileOrder)
		if err != nil || v < 0 {
			return set, nil
		}
		set.Add(uint32(v))
	}
}
