package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/physim/internal/dynamo"
)

type BodyExport struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Mass   float64 `json:"mass"`
	Radius float64 `json:"radius"`
}

type ExportData struct {
	Scenario      string             `json:"scenario"`
	Seed          int64              `json:"seed"`
	Dt            float64            `json:"dt"`
	Steps         int                `json:"steps"`
	Times         []float64          `json:"times"`
	Momentum      [][2]float64       `json:"momentum"`
	KineticEnergy []float64          `json:"kinetic_energy"`
	Contacts      []int              `json:"contacts"`
	WallHits      []int              `json:"wall_hits"`
	Metrics       map[string]float64 `json:"metrics"`
	Final         []BodyExport       `json:"final,omitempty"`
}

func NewExportData(info RunInfo, result *dynamo.Result) ExportData {
	data := ExportData{
		Scenario:      info.Scenario,
		Seed:          info.Seed,
		Dt:            info.Dt,
		Steps:         result.StepsTaken,
		Times:         result.Times,
		Momentum:      make([][2]float64, len(result.Momentum)),
		KineticEnergy: result.KineticEnergy,
		Contacts:      result.Contacts,
		WallHits:      result.WallHits,
		Metrics:       result.Metrics,
		Final:         make([]BodyExport, len(result.Final)),
	}
	for i, p := range result.Momentum {
		data.Momentum[i] = [2]float64{p.X, p.Y}
	}
	for i, b := range result.Final {
		data.Final[i] = BodyExport{X: b.Pos.X, Y: b.Pos.Y, VX: b.Vel.X, VY: b.Vel.Y, Mass: b.Mass, Radius: b.Radius}
	}
	return data
}

// WriteJSON encodes the run as indented JSON to w.
func WriteJSON(w io.Writer, info RunInfo, result *dynamo.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(info, result))
}

func ExportJSON(path string, info RunInfo, result *dynamo.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteJSON(file, info, result); err != nil {
		return err
	}
	return file.Close()
}
