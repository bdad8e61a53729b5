package store

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Document is the full data file. The four entry lists are decoded
// tolerantly: entries that are not JSON objects are dropped, and
// malformed fields inside an entry are left unset rather than failing
// the load. Top-level keys this program does not know about are
// preserved byte-for-byte across a load/save cycle.
type Document struct {
	Moods         []MoodEntry
	Medications   []MedicationEntry
	Water         []WaterEntry
	FocusSessions []FocusSession

	// WaterGoals maps "YYYY-MM-DD" (or "default") to a goal in oz.
	WaterGoals map[string]int

	extra map[string]json.RawMessage
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{WaterGoals: map[string]int{}}
}

// DefaultWaterGoalOz applies when no goal has been set at all.
const DefaultWaterGoalOz = 64

// WaterGoalKeyDefault is the goal map key for the fallback goal.
const WaterGoalKeyDefault = "default"

// WaterGoalFor resolves the goal for a "YYYY-MM-DD" day: the per-day
// goal if set, else the stored default, else DefaultWaterGoalOz.
func (d *Document) WaterGoalFor(day string) int {
	if g, ok := d.WaterGoals[day]; ok && g > 0 {
		return g
	}
	if g, ok := d.WaterGoals[WaterGoalKeyDefault]; ok && g > 0 {
		return g
	}
	return DefaultWaterGoalOz
}

const (
	keyMoods      = "moods"
	keyMeds       = "medications"
	keyWater      = "water"
	keyFocus      = "focus_sessions"
	keyWaterGoals = "water_goals"
)

func (d *Document) UnmarshalJSON(data []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return err
	}

	*d = Document{WaterGoals: map[string]int{}, extra: map[string]json.RawMessage{}}

	for key, raw := range top {
		switch key {
		case keyMoods:
			d.Moods = decodeMoods(raw)
		case keyMeds:
			d.Medications = decodeMedications(raw)
		case keyWater:
			d.Water = decodeWater(raw)
		case keyFocus:
			d.FocusSessions = decodeFocus(raw)
		case keyWaterGoals:
			d.WaterGoals = decodeWaterGoals(raw)
		default:
			d.extra[key] = raw
		}
	}
	return nil
}

func (d *Document) MarshalJSON() ([]byte, error) {
	top := make(map[string]json.RawMessage, len(d.extra)+5)
	for key, raw := range d.extra {
		top[key] = raw
	}

	// The entry lists are always materialized so a fresh file carries
	// the expected shape.
	lists := map[string]any{
		keyMoods: emptyIfNil(d.Moods),
		keyMeds:  emptyIfNilMeds(d.Medications),
		keyWater: emptyIfNilWater(d.Water),
		keyFocus: emptyIfNilFocus(d.FocusSessions),
	}
	for key, v := range lists {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		top[key] = raw
	}

	if len(d.WaterGoals) > 0 {
		raw, err := json.Marshal(d.WaterGoals)
		if err != nil {
			return nil, err
		}
		top[keyWaterGoals] = raw
	}

	return json.Marshal(top)
}

func emptyIfNil(v []MoodEntry) []MoodEntry {
	if v == nil {
		return []MoodEntry{}
	}
	return v
}

func emptyIfNilMeds(v []MedicationEntry) []MedicationEntry {
	if v == nil {
		return []MedicationEntry{}
	}
	return v
}

func emptyIfNilWater(v []WaterEntry) []WaterEntry {
	if v == nil {
		return []WaterEntry{}
	}
	return v
}

func emptyIfNilFocus(v []FocusSession) []FocusSession {
	if v == nil {
		return []FocusSession{}
	}
	return v
}

// ---- tolerant field decoding ----

type rawEntry map[string]json.RawMessage

func decodeObjects(raw json.RawMessage) []rawEntry {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var out []rawEntry
	for _, item := range items {
		var obj rawEntry
		if err := json.Unmarshal(item, &obj); err != nil {
			continue // not an object; skip
		}
		out = append(out, obj)
	}
	return out
}

func decodeMoods(raw json.RawMessage) []MoodEntry {
	var out []MoodEntry
	for _, obj := range decodeObjects(raw) {
		m := MoodEntry{
			TS:            fieldString(obj, "ts"),
			Score:         fieldInt(obj, "score"),
			Notes:         fieldString(obj, "notes"),
			Tags:          fieldTags(obj, "tags"),
			SleepTotalMin: fieldNonNegInt(obj, "sleep_total_min"),
			SleepRemMin:   fieldNonNegInt(obj, "sleep_rem_min"),
			SleepDeepMin:  fieldNonNegInt(obj, "sleep_deep_min"),
		}
		out = append(out, m)
	}
	return out
}

func decodeMedications(raw json.RawMessage) []MedicationEntry {
	var out []MedicationEntry
	for _, obj := range decodeObjects(raw) {
		out = append(out, MedicationEntry{
			TS:    fieldString(obj, "ts"),
			Name:  fieldString(obj, "name"),
			Dose:  fieldString(obj, "dose"),
			Notes: fieldString(obj, "notes"),
		})
	}
	return out
}

func decodeWater(raw json.RawMessage) []WaterEntry {
	var out []WaterEntry
	for _, obj := range decodeObjects(raw) {
		out = append(out, WaterEntry{
			TS: fieldString(obj, "ts"),
			Oz: fieldOz(obj, "oz"),
		})
	}
	return out
}

func decodeFocus(raw json.RawMessage) []FocusSession {
	var out []FocusSession
	for _, obj := range decodeObjects(raw) {
		s := FocusSession{
			TS:        fieldString(obj, "ts"),
			Task:      fieldString(obj, "task"),
			Type:      fieldString(obj, "type"),
			Completed: fieldBool(obj, "completed"),
		}
		if d := fieldInt(obj, "duration_min"); d != nil {
			s.DurationMin = *d
		}
		out = append(out, s)
	}
	return out
}

func decodeWaterGoals(raw json.RawMessage) map[string]int {
	goals := map[string]int{}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return goals
	}
	for day, v := range obj {
		if n := rawInt(v); n != nil && *n > 0 {
			goals[day] = *n
		}
	}
	return goals
}

func fieldString(obj rawEntry, key string) string {
	raw, ok := obj[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func fieldBool(obj rawEntry, key string) bool {
	raw, ok := obj[key]
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}

// fieldInt accepts only integer JSON numbers: "7" decodes, "7.5" and
// "7.0" do not. This mirrors how historical files were written.
func fieldInt(obj rawEntry, key string) *int {
	raw, ok := obj[key]
	if !ok {
		return nil
	}
	return rawInt(raw)
}

func rawInt(raw json.RawMessage) *int {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return nil
	}
	s := n.String()
	if strings.ContainsAny(s, ".eE") {
		return nil
	}
	v, err := n.Int64()
	if err != nil {
		return nil
	}
	i := int(v)
	return &i
}

func fieldNonNegInt(obj rawEntry, key string) *int {
	v := fieldInt(obj, key)
	if v == nil || *v < 0 {
		return nil
	}
	return v
}

// fieldOz coerces the water amount: integer and float numbers truncate
// to int, digit strings convert, anything else counts as zero.
func fieldOz(obj rawEntry, key string) int {
	raw, ok := obj[key]
	if !ok {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if s != "" {
			n := 0
			for i := 0; i < len(s); i++ {
				if s[i] < '0' || s[i] > '9' {
					return 0
				}
				n = n*10 + int(s[i]-'0')
			}
			return n
		}
	}
	return 0
}

func fieldTags(obj rawEntry, key string) []string {
	raw, ok := obj[key]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var tags []string
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		if strings.TrimSpace(s) != "" {
			tags = append(tags, s)
		}
	}
	return tags
}
