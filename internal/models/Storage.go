package models

// Document is the persisted form of every course plus the process-wide activity log.
type Document struct {
	Courses     []*Course      `json:"courses"`
	ActivityLog map[string]int `json:"activity_log"`
}

func NewDocument() *Document {
	return &Document{
		Courses:     make([]*Course, 0),
		ActivityLog: make(map[string]int),
	}
}

// Normalize replaces absent collections with empty ones so that a loaded document
// encodes the same way it will be saved.
func (d *Document) Normalize() {
	if d.Courses == nil {
		d.Courses = make([]*Course, 0)
	}
	if d.ActivityLog == nil {
		d.ActivityLog = make(map[string]int)
	}
	kept := d.Courses[:0]
	for _, c := range d.Courses {
		if c == nil {
			continue
		}
		c.normalize()
		kept = append(kept, c)
	}
	d.Courses = kept
}

func (d *Document) Clone() *Document {
	cp := &Document{
		Courses:     make([]*Course, 0, len(d.Courses)),
		ActivityLog: make(map[string]int, len(d.ActivityLog)),
	}
	for _, c := range d.Courses {
		cp.Courses = append(cp.Courses, c.Clone())
	}
	for k, v := range d.ActivityLog {
		cp.ActivityLog[k] = v
	}
	return cp
}
