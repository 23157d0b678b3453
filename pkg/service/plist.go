package service

import (
	"strings"

	"github.com/arthur-debert/recent-work/pkg/errors"
	"github.com/beevik/etree"
)

const plistDoctype = `DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd"`

// Descriptor describes the per-user agent.
type Descriptor struct {
	Label     string
	Program   string
	Args      []string
	StdoutLog string
	StderrLog string
}

// ProgramArguments returns the full argv launchd runs.
func (d Descriptor) ProgramArguments() []string {
	return append([]string{d.Program}, d.Args...)
}

// MarshalPlist renders the launchd property list for d.
func MarshalPlist(d Descriptor) ([]byte, error) {
	if d.Label == "" || d.Program == "" {
		return nil, errors.New(errors.ErrServiceDescriptor, "label and program are required")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateDirective(plistDoctype)

	plist := doc.CreateElement("plist")
	plist.CreateAttr("version", "1.0")
	dict := plist.CreateElement("dict")

	addString(dict, "Label", d.Label)

	dict.CreateElement("key").SetText("ProgramArguments")
	array := dict.CreateElement("array")
	for _, arg := range d.ProgramArguments() {
		array.CreateElement("string").SetText(arg)
	}

	addBool(dict, "RunAtLoad", true)
	addBool(dict, "KeepAlive", true)
	addString(dict, "ProcessType", "Background")
	if d.StdoutLog != "" {
		addString(dict, "StandardOutPath", d.StdoutLog)
	}
	if d.StderrLog != "" {
		addString(dict, "StandardErrorPath", d.StderrLog)
	}

	doc.Indent(2)
	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrServiceDescriptor, "failed to render property list")
	}
	return data, nil
}

// UnmarshalPlist reads back the fields MarshalPlist writes.
func UnmarshalPlist(data []byte) (Descriptor, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return Descriptor{}, errors.Wrap(err, errors.ErrServiceDescriptor, "failed to parse property list")
	}
	dict := doc.FindElement("/plist/dict")
	if dict == nil {
		return Descriptor{}, errors.New(errors.ErrServiceDescriptor, "property list has no dict")
	}

	var d Descriptor
	children := dict.ChildElements()
	for i := 0; i+1 < len(children); i++ {
		if children[i].Tag != "key" {
			continue
		}
		value := children[i+1]
		switch strings.TrimSpace(children[i].Text()) {
		case "Label":
			d.Label = value.Text()
		case "StandardOutPath":
			d.StdoutLog = value.Text()
		case "StandardErrorPath":
			d.StderrLog = value.Text()
		case "ProgramArguments":
			for j, arg := range value.SelectElements("string") {
				if j == 0 {
					d.Program = arg.Text()
					continue
				}
				d.Args = append(d.Args, arg.Text())
			}
		}
	}
	if d.Label == "" || d.Program == "" {
		return Descriptor{}, errors.New(errors.ErrServiceDescriptor, "property list is missing Label or ProgramArguments")
	}
	return d, nil
}

func addString(dict *etree.Element, key, value string) {
	dict.CreateElement("key").SetText(key)
	dict.CreateElement("string").SetText(value)
}

func addBool(dict *etree.Element, key string, value bool) {
	dict.CreateElement("key").SetText(key)
	if value {
		dict.CreateElement("true")
	} else {
		dict.CreateElement("false")
	}
}
