package gatingml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/czarop/flowcyto/gate"
)

// escapeAttr XML-escapes a string for use inside a double-quoted
// attribute value (channel and gate ids are free text and may contain
// characters like & or " that Go's %q Go-string escaping would not
// translate correctly for XML).
func escapeAttr(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Write emits records as a GatingML v2.0 document with namespace prefix
// "gating:" and companion "data-type:" coordinate attributes (§4.H, §6
// External Interfaces).
func Write(w io.Writer, records []Record) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "<gating:Gating-ML xmlns:gating=%q xmlns:data-type=%q>\n", namespaceV20, "http://www.isac-net.org/std/Gating-ML/v2.0/datatypes"); err != nil {
		return err
	}

	for _, rec := range records {
		var err error
		switch rec.Geometry.Kind {
		case gate.Polygon:
			err = writePolygon(w, rec)
		case gate.Rectangle:
			err = writeRectangle(w, rec)
		case gate.Ellipse:
			err = writeEllipse(w, rec)
		case gate.Boolean:
			err = writeBoolean(w, rec)
		}
		if err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</gating:Gating-ML>\n")
	return err
}

func f(v float64) string { return strconv.FormatFloat(v, 'g', 10, 64) }

func writePolygon(w io.Writer, rec Record) error {
	if _, err := fmt.Fprintf(w, "  <gating:PolygonGate gating:id=\"%s\" gating:xParameter=\"%s\" gating:yParameter=\"%s\">\n",
		escapeAttr(rec.ID), escapeAttr(rec.XChannel), escapeAttr(rec.YChannel)); err != nil {
		return err
	}
	for _, v := range rec.Geometry.Vertices {
		if _, err := fmt.Fprintf(w, "    <gating:vertex><data-type:coordinate data-type:value=\"%s\"/><data-type:coordinate data-type:value=\"%s\"/></gating:vertex>\n",
			f(v.X), f(v.Y)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "  </gating:PolygonGate>\n")
	return err
}

func writeRectangle(w io.Writer, rec Record) error {
	_, err := fmt.Fprintf(w, "  <gating:RectangleGate gating:id=\"%s\" gating:xParameter=\"%s\" gating:yParameter=\"%s\" gating:minX=\"%s\" gating:maxX=\"%s\" gating:minY=\"%s\" gating:maxY=\"%s\"/>\n",
		escapeAttr(rec.ID), escapeAttr(rec.XChannel), escapeAttr(rec.YChannel), f(rec.Geometry.Min.X), f(rec.Geometry.Max.X), f(rec.Geometry.Min.Y), f(rec.Geometry.Max.Y))
	return err
}

func writeEllipse(w io.Writer, rec Record) error {
	if _, err := fmt.Fprintf(w, "  <gating:EllipseGate gating:id=\"%s\" gating:xParameter=\"%s\" gating:yParameter=\"%s\" gating:radiusX=\"%s\" gating:radiusY=\"%s\" gating:angle=\"%s\">\n",
		escapeAttr(rec.ID), escapeAttr(rec.XChannel), escapeAttr(rec.YChannel), f(rec.Geometry.RadiusX), f(rec.Geometry.RadiusY), f(rec.Geometry.Angle)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "    <gating:vertex><data-type:coordinate data-type:value=\"%s\"/><data-type:coordinate data-type:value=\"%s\"/></gating:vertex>\n",
		f(rec.Geometry.Center.X), f(rec.Geometry.Center.Y)); err != nil {
		return err
	}
	_, err := io.WriteString(w, "  </gating:EllipseGate>\n")
	return err
}

// writeBoolean maps the boolean operation to an element name (and/or/not),
// not an attribute: GatingML keys the operation this way (§4.H), with the
// operands nested as gateReference children of that operation element.
func writeBoolean(w io.Writer, rec Record) error {
	opName := "and"
	switch rec.Geometry.Op {
	case gate.Or:
		opName = "or"
	case gate.Not:
		opName = "not"
	}
	if _, err := fmt.Fprintf(w, "  <gating:BooleanGate gating:id=\"%s\">\n", escapeAttr(rec.ID)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "    <gating:%s>\n", opName); err != nil {
		return err
	}
	for _, child := range rec.Geometry.Children {
		if _, err := fmt.Fprintf(w, "      <gating:gateReference gating:ref=\"%s\"/>\n", escapeAttr(child)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "    </gating:%s>\n", opName); err != nil {
		return err
	}
	_, err := io.WriteString(w, "  </gating:BooleanGate>\n")
	return err
}
