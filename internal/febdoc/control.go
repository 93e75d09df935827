package febdoc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// controlBlock mirrors one <Control> element: its own step count and step
// size, plus any nested <step><Control>...</Control></step> sub-blocks.
// Unmarshalling one <Control> element recursively decodes every Control
// nested inside it, so the outer token loop in TotalSimulatedTime never
// has to revisit those nested elements itself.
type controlBlock struct {
	TimeSteps int     `xml:"time_steps"`
	StepSize  float64 `xml:"step_size"`
	Steps     []struct {
		Control *controlBlock `xml:"Control"`
	} `xml:"step"`
}

func (c *controlBlock) totalTime() float64 {
	total := float64(c.TimeSteps) * c.StepSize
	for _, s := range c.Steps {
		if s.Control != nil {
			total += s.Control.totalTime()
		}
	}
	return total
}

// TotalSimulatedTime recursively searches the document for every <Control>
// block, including those nested inside step sub-blocks, and sums
// steps × dt across top-level and nested step blocks (spec §4.2 "Control
// discovery").
func TotalSimulatedTime(source []byte) (float64, error) {
	dec := xml.NewDecoder(bytes.NewReader(source))
	var total float64
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("febdoc: control discovery: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Control" {
			continue
		}
		var cb controlBlock
		if err := dec.DecodeElement(&cb, &se); err != nil {
			return 0, fmt.Errorf("febdoc: decode Control block: %w", err)
		}
		total += cb.totalTime()
	}
	return total, nil
}
