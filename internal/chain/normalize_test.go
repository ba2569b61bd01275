package chain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"cadena-service/internal/model"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"05-03-2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"05/03/2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"5-3-2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"31/12/1999", time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"29-02-2024", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if err != nil {
			t.Errorf("ParseDate(%q) failed: %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) || got.Location() != time.UTC {
			t.Errorf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseDateRejects(t *testing.T) {
	for _, in := range []string{
		"2024-03-05",
		"05-13-2024",
		"32-01-2024",
		"00-01-2024",
		"05.03.2024",
		"05-03-24",
		"31-02-2024",
		"29-02-2023",
		" 05-03-2024",
		"",
	} {
		if _, err := ParseDate(in); err == nil {
			t.Errorf("ParseDate(%q) should fail", in)
		}
	}
}

func TestNormalizeAppliesDefaults(t *testing.T) {
	d, err := Normalize(validPayload())
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	c := d.Chain
	if c.NoticeDays != 2 || !c.Active || c.SubDivision != 1 || c.Message != model.DefaultMessage {
		t.Errorf("defaults not applied: %+v", c)
	}
	if c.Slug != "" {
		t.Errorf("slug must stay empty until assigned, got %q", c.Slug)
	}
	if d.SlugBase != "cadena_test" {
		t.Errorf("expected slug base cadena_test, got %q", d.SlugBase)
	}
	if !c.StartDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) ||
		!c.EndDate.Equal(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected dates %v %v", c.StartDate, c.EndDate)
	}
}

func TestNormalizeOverridesDefaults(t *testing.T) {
	p := validPayload()
	p["aviso"] = float64(5)
	p["activo"] = false
	p["mensaje"] = "paga"
	p["sub_div"] = float64(2)
	p["slug"] = "ignored"

	d, err := Normalize(p)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	c := d.Chain
	if c.NoticeDays != 5 || c.Active || c.Message != "paga" || c.SubDivision != 2 {
		t.Errorf("overrides not applied: %+v", c)
	}
	if c.Slug != "" {
		t.Errorf("input slug must be ignored, got %q", c.Slug)
	}
}

func TestNormalizeNullOptionalKeepsDefault(t *testing.T) {
	p := validPayload()
	p["aviso"] = nil
	p["activo"] = nil

	d, err := Normalize(p)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if d.Chain.NoticeDays != 2 || !d.Chain.Active {
		t.Errorf("null optional fields should keep defaults: %+v", d.Chain)
	}
}

func TestNormalizeTitle(t *testing.T) {
	p := validPayload()
	p["titulo"] = "Cadena De Mayo-2024_x"

	d, err := Normalize(p)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if d.Chain.Title != "cadena de mayo-2024_x" {
		t.Errorf("title not lowercased: %q", d.Chain.Title)
	}
	if d.SlugBase != "cadena_de_mayo-2024_x" {
		t.Errorf("unexpected slug base %q", d.SlugBase)
	}
}

func TestNormalizeMalformedTitle(t *testing.T) {
	for _, title := range []interface{}{"cadena!", "cadeña", "", "a/b", float64(3)} {
		p := validPayload()
		p["titulo"] = title
		_, err := Normalize(p)
		assertKind(t, err, MalformedTitle, "titulo")
	}
}

func TestNormalizeMalformedDate(t *testing.T) {
	for _, field := range []string{"fecha_inicio", "fecha_fin"} {
		for _, value := range []interface{}{"2024/01/01", "1 de enero", float64(20240101), nil} {
			p := validPayload()
			p[field] = value
			_, err := Normalize(p)
			assertKind(t, err, MalformedDate, field)
		}
	}
}

func TestNormalizeStripsUnknownParticipantFields(t *testing.T) {
	p := validPayload()
	p["participantes"] = []interface{}{
		map[string]interface{}{"nombre": "Ana", "numero": "555", "puesto": float64(1), "extra": "x", "email": "a@b.c"},
		map[string]interface{}{"nombre": "Luis", "numero": float64(556), "puesto": "2"},
	}

	d, err := Normalize(p)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	want := []model.Participant{
		{Name: "Ana", ContactNumber: "555", Position: model.IntPosition(1)},
		{Name: "Luis", ContactNumber: "556", Position: model.IntPosition(2)},
	}
	if !reflect.DeepEqual(d.Chain.Participants, want) {
		t.Errorf("participants = %+v, want %+v", d.Chain.Participants, want)
	}

	raw, _ := json.Marshal(d.Chain.Participants[0])
	var keys map[string]interface{}
	_ = json.Unmarshal(raw, &keys)
	if len(keys) != 3 {
		t.Errorf("participant should serialize exactly 3 keys, got %v", keys)
	}
}

func TestNormalizeInvalidFields(t *testing.T) {
	cases := []struct {
		key   string
		value interface{}
		field string
	}{
		{"aviso", "pronto", "aviso"},
		{"aviso", float64(1.5), "aviso"},
		{"aviso", float64(-1), "aviso"},
		{"activo", "yes", "activo"},
		{"mensaje", float64(1), "mensaje"},
		{"sub_div", float64(3), "sub_div"},
	}
	for _, tc := range cases {
		p := validPayload()
		p[tc.key] = tc.value
		_, err := Normalize(p)
		assertKind(t, err, InvalidField, tc.field)
	}
}

func TestNormalizeInvalidParticipantValues(t *testing.T) {
	cases := []struct {
		participant map[string]interface{}
		field       string
	}{
		{map[string]interface{}{"nombre": float64(1), "numero": "555", "puesto": float64(1)}, "participantes[0].nombre"},
		{map[string]interface{}{"nombre": "Ana", "numero": true, "puesto": float64(1)}, "participantes[0].numero"},
		{map[string]interface{}{"nombre": "Ana", "numero": "555", "puesto": float64(1.5)}, "participantes[0].puesto"},
		{map[string]interface{}{"nombre": "Ana", "numero": "555", "puesto": "  "}, "participantes[0].puesto"},
		{map[string]interface{}{"nombre": "Ana", "numero": "555", "puesto": true}, "participantes[0].puesto"},
	}
	for _, tc := range cases {
		p := validPayload()
		p["participantes"] = []interface{}{tc.participant}
		_, err := Normalize(p)
		assertKind(t, err, InvalidField, tc.field)
	}
}

func TestNormalizeOrdinalPositions(t *testing.T) {
	p := validPayload()
	p["participantes"] = []interface{}{
		map[string]interface{}{"nombre": "Ana", "numero": "555", "puesto": "primero"},
		map[string]interface{}{"nombre": "Luis", "numero": "556", "puesto": "2nd"},
		map[string]interface{}{"nombre": "", "numero": "", "puesto": float64(-1)},
	}

	d, err := Normalize(p)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	want := []model.Position{
		model.OrdinalPosition("primero"),
		model.OrdinalPosition("2nd"),
		model.IntPosition(-1),
	}
	for i, w := range want {
		if got := d.Chain.Participants[i].Position; got != w {
			t.Errorf("participant %d position = %+v, want %+v", i, got, w)
		}
	}

	raw, err := json.Marshal(d.Chain.Participants)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(raw), `"puesto":"primero"`) || !strings.Contains(string(raw), `"puesto":-1`) {
		t.Errorf("positions not serialized as sent: %s", raw)
	}
}

func TestSlug(t *testing.T) {
	if got := Slug("cadena_test", "65f1c2a9e4b0a1b2c3d4e5f6"); got != "cadena_test_e5f6" {
		t.Errorf("Slug() = %q", got)
	}
	if got := Slug("x", "ab"); got != "x_ab" {
		t.Errorf("Slug() with short id = %q", got)
	}
}
