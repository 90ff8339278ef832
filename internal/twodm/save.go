package twodm

import (
	"bufio"
	"fmt"
	"strconv"

	"github.com/meshkit-io/meshkit/api"
	"github.com/meshkit-io/meshkit/internal/rawio"
)

// Save serializes any mesh to 2DM. It derives every line solely from the
// generic mesh contract, so meshes loaded by other drivers round-trip too.
// Faces with a vertex count other than 3 or 4 cannot be expressed in this
// format; they are omitted entirely and logged.
func (d *Driver) Save(uri string, m api.Mesh) error {
	d.lastURI = uri

	f, err := d.fs.Create(uri)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", api.ErrWriteFailure, uri, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, headerToken)

	for i, v := range m.Vertices() {
		fmt.Fprintf(w, "ND %d %s %s %s\n", i+1,
			rawio.FormatDouble(v.X),
			rawio.FormatDouble(v.Y),
			rawio.FormatDouble(v.Z))
	}

	for i, face := range m.Faces() {
		var token string
		switch len(face) {
		case 3:
			token = "E3T"
		case 4:
			token = "E4Q"
		default:
			d.logger.Printf("%s: skipping face %d with %d vertices on save", driverName, i+1, len(face))
			continue
		}
		line := token + " " + strconv.Itoa(i+1)
		for _, vi := range face {
			line += " " + strconv.Itoa(vi+1)
		}
		fmt.Fprintln(w, line)
	}

	// Edge IDs continue the face numbering.
	for i, e := range m.Edges() {
		fmt.Fprintf(w, "E2L %d %d %d 1\n", m.FaceCount()+i+1, e.Start+1, e.End+1)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: %s: %v", api.ErrWriteFailure, uri, err)
	}
	return nil
}
