package gatingml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/czarop/flowcyto/gate"
	"go.uber.org/zap"
)

// Read streams gates out of a GatingML v1.5 or v2.0 document. logger may be
// nil, in which case soft-skip warnings are discarded (§4.H; a nil logger
// across the module defaults to zap.NewNop(), per the ambient logging
// convention).
func Read(r io.Reader, logger *zap.Logger) ([]Record, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dec := xml.NewDecoder(r)

	var records []Record
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gatingml: tokenize: %w: %v", ErrInvalidXML, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "PolygonGate":
			rec, perr := decodePolygon(dec, start)
			if perr != nil {
				logger.Warn("gatingml: skipping malformed PolygonGate", zap.Error(perr))
				continue
			}
			records = append(records, rec)
		case "RectangleGate":
			rec, perr := decodeRectangle(dec, start)
			if perr != nil {
				logger.Warn("gatingml: skipping malformed RectangleGate", zap.Error(perr))
				continue
			}
			records = append(records, rec)
		case "EllipseGate":
			rec, perr := decodeEllipse(dec, start)
			if perr != nil {
				logger.Warn("gatingml: skipping malformed EllipseGate", zap.Error(perr))
				continue
			}
			records = append(records, rec)
		case "BooleanGate":
			rec, perr := decodeBoolean(dec, start)
			if perr != nil {
				logger.Warn("gatingml: skipping malformed BooleanGate", zap.Error(perr))
				continue
			}
			records = append(records, rec)
		default:
			if isGateElement(start.Name.Local) {
				logger.Warn("gatingml: skipping unknown gate type", zap.String("element", start.Name.Local))
			}
		}
	}
	return records, nil
}

// isGateElement reports whether a local name looks like a gate element
// this reader does not recognize, so only genuinely gate-shaped unknown
// elements get a soft-skip log (not every stray XML tag in the document).
func isGateElement(local string) bool {
	return strings.HasSuffix(local, "Gate")
}

func attr(start xml.StartElement, local string) (string, bool) {
	for _, a := range start.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func requireAttr(start xml.StartElement, local string) (string, error) {
	v, ok := attr(start, local)
	if !ok || v == "" {
		return "", ErrMalformedAttribute
	}
	return v, nil
}

func requireFloatAttr(start xml.StartElement, local string) (float64, error) {
	raw, err := requireAttr(start, local)
	if err != nil {
		return 0, err
	}
	v, perr := strconv.ParseFloat(raw, 64)
	if perr != nil {
		return 0, ErrMalformedAttribute
	}
	return v, nil
}

type rawCoordinate struct {
	Value string `xml:"value,attr"`
}

type rawVertex struct {
	Coordinates []rawCoordinate `xml:"coordinate"`
}

type rawDimension struct {
	Parameter string  `xml:"parameter,attr"`
	Min       *string `xml:"min,attr"`
	Max       *string `xml:"max,attr"`
}

func decodePolygon(dec *xml.Decoder, start xml.StartElement) (Record, error) {
	id, err := requireAttr(start, "id")
	if err != nil {
		_ = dec.Skip()
		return Record{}, err
	}
	xChannel, _ := attr(start, "xParameter")
	yChannel, _ := attr(start, "yParameter")

	var body struct {
		Vertices []rawVertex `xml:"vertex"`
	}
	if err := dec.DecodeElement(&body, &start); err != nil {
		return Record{}, ErrMalformedAttribute
	}

	vertices := make([]gate.Point, 0, len(body.Vertices))
	for _, v := range body.Vertices {
		if len(v.Coordinates) < 2 {
			return Record{}, ErrMalformedAttribute
		}
		x, err := strconv.ParseFloat(v.Coordinates[0].Value, 64)
		if err != nil {
			return Record{}, ErrMalformedAttribute
		}
		y, err := strconv.ParseFloat(v.Coordinates[1].Value, 64)
		if err != nil {
			return Record{}, ErrMalformedAttribute
		}
		vertices = append(vertices, gate.Point{X: x, Y: y})
	}

	geo, err := gate.NewPolygon(vertices)
	if err != nil {
		return Record{}, err
	}
	return Record{Gate: gate.Gate{ID: id, Geometry: geo, XChannel: xChannel, YChannel: yChannel}}, nil
}

func decodeRectangle(dec *xml.Decoder, start xml.StartElement) (Record, error) {
	id, err := requireAttr(start, "id")
	if err != nil {
		_ = dec.Skip()
		return Record{}, err
	}

	var body struct {
		Dimensions []rawDimension `xml:"dimension"`
	}
	if err := dec.DecodeElement(&body, &start); err != nil {
		return Record{}, ErrMalformedAttribute
	}

	var minX, maxX, minY, maxY float64
	var xChannel, yChannel string
	if minXAttr, ok := attr(start, "minX"); ok {
		// v2.0: bounds are element attributes directly.
		if minX, err = strconv.ParseFloat(minXAttr, 64); err != nil {
			return Record{}, ErrMalformedAttribute
		}
		if maxX, err = requireFloatAttr(start, "maxX"); err != nil {
			return Record{}, err
		}
		if minY, err = requireFloatAttr(start, "minY"); err != nil {
			return Record{}, err
		}
		if maxY, err = requireFloatAttr(start, "maxY"); err != nil {
			return Record{}, err
		}
		xChannel, _ = attr(start, "xParameter")
		yChannel, _ = attr(start, "yParameter")
	} else {
		// v1.5: two <dimension parameter=".." min=".." max=".."/> children.
		if len(body.Dimensions) < 2 {
			return Record{}, ErrMalformedAttribute
		}
		xDim, yDim := body.Dimensions[0], body.Dimensions[1]
		if xDim.Min == nil || xDim.Max == nil || yDim.Min == nil || yDim.Max == nil {
			return Record{}, ErrMalformedAttribute
		}
		if minX, err = strconv.ParseFloat(*xDim.Min, 64); err != nil {
			return Record{}, ErrMalformedAttribute
		}
		if maxX, err = strconv.ParseFloat(*xDim.Max, 64); err != nil {
			return Record{}, ErrMalformedAttribute
		}
		if minY, err = strconv.ParseFloat(*yDim.Min, 64); err != nil {
			return Record{}, ErrMalformedAttribute
		}
		if maxY, err = strconv.ParseFloat(*yDim.Max, 64); err != nil {
			return Record{}, ErrMalformedAttribute
		}
		xChannel, yChannel = xDim.Parameter, yDim.Parameter
	}

	geo, err := gate.NewRectangle(gate.Point{X: minX, Y: minY}, gate.Point{X: maxX, Y: maxY})
	if err != nil {
		return Record{}, err
	}
	return Record{Gate: gate.Gate{ID: id, Geometry: geo, XChannel: xChannel, YChannel: yChannel}}, nil
}

func decodeEllipse(dec *xml.Decoder, start xml.StartElement) (Record, error) {
	id, err := requireAttr(start, "id")
	if err != nil {
		_ = dec.Skip()
		return Record{}, err
	}
	radiusX, err := requireFloatAttr(start, "radiusX")
	if err != nil {
		_ = dec.Skip()
		return Record{}, err
	}
	radiusY, err := requireFloatAttr(start, "radiusY")
	if err != nil {
		_ = dec.Skip()
		return Record{}, err
	}
	angle, _ := attr(start, "angle")
	angleVal := 0.0
	if angle != "" {
		if angleVal, err = strconv.ParseFloat(angle, 64); err != nil {
			_ = dec.Skip()
			return Record{}, ErrMalformedAttribute
		}
	}
	xChannel, _ := attr(start, "xParameter")
	yChannel, _ := attr(start, "yParameter")

	var body struct {
		Vertex rawVertex `xml:"vertex"`
	}
	if err := dec.DecodeElement(&body, &start); err != nil {
		return Record{}, ErrMalformedAttribute
	}
	centerX, centerY := 0.0, 0.0
	if len(body.Vertex.Coordinates) >= 2 {
		if centerX, err = strconv.ParseFloat(body.Vertex.Coordinates[0].Value, 64); err != nil {
			return Record{}, ErrMalformedAttribute
		}
		if centerY, err = strconv.ParseFloat(body.Vertex.Coordinates[1].Value, 64); err != nil {
			return Record{}, ErrMalformedAttribute
		}
	}

	geo, err := gate.NewEllipse(gate.Point{X: centerX, Y: centerY}, radiusX, radiusY, angleVal)
	if err != nil {
		return Record{}, err
	}
	return Record{Gate: gate.Gate{ID: id, Geometry: geo, XChannel: xChannel, YChannel: yChannel}}, nil
}

// rawBooleanOperand holds the gateReference children of an and/or/not
// operation element.
type rawBooleanOperand struct {
	Refs []struct {
		Ref string `xml:"ref,attr"`
	} `xml:"gateReference"`
}

// decodeBoolean reads a BooleanGate wrapper whose operation is keyed by
// element name (a nested <and>/<or>/<not>, each holding gateReference
// children) rather than an operator attribute, matching how GatingML
// documents actually encode it (§4.H).
func decodeBoolean(dec *xml.Decoder, start xml.StartElement) (Record, error) {
	id, err := requireAttr(start, "id")
	if err != nil {
		_ = dec.Skip()
		return Record{}, err
	}

	var body struct {
		And *rawBooleanOperand `xml:"and"`
		Or  *rawBooleanOperand `xml:"or"`
		Not *rawBooleanOperand `xml:"not"`
	}
	if err := dec.DecodeElement(&body, &start); err != nil {
		return Record{}, ErrMalformedAttribute
	}

	var op gate.BooleanOp
	var operand *rawBooleanOperand
	switch {
	case body.And != nil:
		op, operand = gate.And, body.And
	case body.Or != nil:
		op, operand = gate.Or, body.Or
	case body.Not != nil:
		op, operand = gate.Not, body.Not
	default:
		return Record{}, ErrMalformedAttribute
	}

	refs := make([]string, 0, len(operand.Refs))
	for _, r := range operand.Refs {
		if r.Ref == "" {
			return Record{}, ErrMalformedAttribute
		}
		refs = append(refs, r.Ref)
	}

	geo, err := gate.NewBoolean(op, refs)
	if err != nil {
		return Record{}, err
	}
	return Record{Gate: gate.Gate{ID: id, Geometry: geo}}, nil
}
