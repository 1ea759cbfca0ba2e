package export

import (
	"bytes"

	"github.com/matzehuels/vectorstudio/pkg/scene"
)

// JSON encodes doc in the document file format. Hidden objects are kept,
// since visibility is part of the document; non-committed objects are not.
// The result loads back with scene.ReadDocument.
func JSON(doc *scene.Document) ([]byte, error) {
	out := *doc
	out.Objects = make([]*scene.Object, 0, len(doc.Objects))
	for _, o := range doc.Objects {
		if o.Role == scene.RoleCommitted {
			out.Objects = append(out.Objects, o)
		}
	}
	var buf bytes.Buffer
	if err := out.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
