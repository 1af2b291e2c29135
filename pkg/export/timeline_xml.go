package export

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-errors/errors"
)

var (
	_ TimelineWriter = (*XMLTimeline)(nil)
	_ HeaderWriter   = (*XMLTimeline)(nil)
)

// XMLTimeline writes the timeline XML format.
type XMLTimeline struct {
	info TimelineInfo
	acts []Activity
}

// SetInfo sets the header.
func (t *XMLTimeline) SetInfo(info TimelineInfo) {
	t.info = info
}

// Add appends an activity.
func (t *XMLTimeline) Add(a Activity) {
	t.acts = append(t.acts, a)
}

type xmlTimeline struct {
	XMLName     xml.Name      `xml:"timeline"`
	Name        string        `xml:"name"`
	Rev         string        `xml:"rev"`
	Description string        `xml:"description"`
	Author      string        `xml:"author"`
	License     string        `xml:"license"`
	Zone        string        `xml:"zone"`
	Locale      string        `xml:"locale"`
	Activities  []xmlActivity `xml:"a"`
}

type xmlActivity struct {
	Time    string `xml:"time,attr"`
	Text    string `xml:"text,attr"`
	Sync    string `xml:"sync,attr,omitempty"`
	Notice  string `xml:"notice,attr,omitempty"`
	Enabled string `xml:"enabled,attr,omitempty"`
}

// Marshal renders the timeline document.
func (t *XMLTimeline) Marshal() ([]byte, error) {
	doc := xmlTimeline{
		Name:        t.info.Name,
		Rev:         t.info.Revision,
		Description: t.info.Description,
		Author:      t.info.Author,
		License:     t.info.License,
		Zone:        t.info.Zone,
		Locale:      string(t.info.Locale),
	}
	for _, a := range t.acts {
		xa := xmlActivity{
			Time:   fmt.Sprintf("%05.1f", a.Time.Seconds()),
			Text:   a.Text,
			Sync:   a.SyncKeyword,
			Notice: a.Notice,
		}
		if a.Enabled != nil {
			xa.Enabled = strconv.FormatBool(*a.Enabled)
		}
		doc.Activities = append(doc.Activities, xa)
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Errorf("marshal timeline: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// Save writes the document to path.
func (t *XMLTimeline) Save(path string) error {
	data, err := t.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Errorf("create timeline directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Errorf("write timeline: %w", err)
	}
	return nil
}
