package api

import (
	"encoding/xml"
	"io"
)

// Parse the XML data (output.xml created by Robot Framework)

// Document holds the nodes extracted from a report: every test in document
// order and the aggregate statistics block.
type Document struct {
	Tests      []TestNode
	Statistics *StatisticsNode
}

type TestNode struct {
	Name   string      `xml:"name,attr"`
	Status *StatusNode `xml:"status"`

	// Suite is the name of the suite enclosing the test, filled by the walk.
	Suite string `xml:"-"`
}

type StatusNode struct {
	Status    string `xml:"status,attr"`
	StartTime string `xml:"starttime,attr"`
	EndTime   string `xml:"endtime,attr"`

	// Message joins every text fragment of the node, in order, without separator.
	Message string `xml:",chardata"`
}

type StatisticsNode struct {
	Total *StatisticsTotal `xml:"total"`
}

type StatisticsTotal struct {
	Stats []StatNode `xml:"stat"`
}

type StatNode struct {
	Pass  string `xml:"pass,attr"`
	Fail  string `xml:"fail,attr"`
	Skip  string `xml:"skip,attr"`
	Label string `xml:",chardata"`
}

// ParseDocument walks the report with a streaming decoder. Suites are tracked
// on a stack so each test is tagged with its immediate parent suite. Only the
// first statistics block is kept.
func ParseDocument(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	doc := &Document{}
	suites := []string{}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, newParseError("document", "", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "suite":
				suites = append(suites, attrValue(el, "name"))
			case "test":
				node := TestNode{}
				if err := dec.DecodeElement(&node, &el); err != nil {
					return nil, newParseError("test", attrValue(el, "name"), err)
				}
				if len(suites) > 0 {
					node.Suite = suites[len(suites)-1]
				}
				doc.Tests = append(doc.Tests, node)
			case "statistics":
				if doc.Statistics != nil {
					if err := dec.Skip(); err != nil {
						return nil, newParseError("statistics", "", err)
					}
					continue
				}
				stats := &StatisticsNode{}
				if err := dec.DecodeElement(stats, &el); err != nil {
					return nil, newParseError("statistics", "", err)
				}
				doc.Statistics = stats
			}
		case xml.EndElement:
			if el.Name.Local == "suite" && len(suites) > 0 {
				suites = suites[:len(suites)-1]
			}
		}
	}

	if doc.Statistics == nil {
		return nil, newParseError("statistics", "", nil)
	}
	return doc, nil
}

func attrValue(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
