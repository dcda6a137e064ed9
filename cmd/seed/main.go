package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Regenerates the bundled provider slot fixtures. Each provider keeps its own
// raw wire shape so the adapters stay exercised against realistic input.

type branch struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
}

type canonicalSlot struct {
	SlotID      string `json:"slotId"`
	DoctorID    string `json:"doctorId"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime,omitempty"`
	IsAvailable bool   `json:"isAvailable"`
	Branch      branch `json:"branch"`
}

type clalitLocation struct {
	SiteCode string `json:"siteCode"`
	SiteName string `json:"siteName"`
	Address  string `json:"address"`
	City     string `json:"city"`
}

type clalitSlot struct {
	SlotID       string         `json:"slotId"`
	DoctorID     string         `json:"doctorId"`
	SlotDateTime string         `json:"slotDateTime"`
	Status       string         `json:"status"`
	Location     clalitLocation `json:"location"`
}

var cities = []string{"Tel Aviv", "Haifa", "Jerusalem", "Beer Sheva", "Netanya", "Rishon LeZion"}

func main() {
	out := flag.String("out", "internal/provider/fixtures", "directory to write fixture files into")
	days := flag.Int("days", 10, "how many days of slots to generate per provider")
	perDay := flag.Int("per-day", 4, "slots per provider per day")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("seed starting, out=%s", *out)

	gofakeit.Seed(time.Now().UnixNano())

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	base := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)

	for _, p := range []string{"maccabi", "meuhedet", "leumit"} {
		slots := canonicalSlots(p, base, *days, *perDay)
		if err := writeFixture(*out, p, map[string]any{"slots": slots}); err != nil {
			log.Fatalf("write %s fixture: %v", p, err)
		}
		log.Printf("%s: %d slots", p, len(slots))
	}

	clalit := clalitSlots(base, *days, *perDay)
	if err := writeFixture(*out, "clalit", map[string]any{"slots": clalit}); err != nil {
		log.Fatalf("write clalit fixture: %v", err)
	}
	log.Printf("clalit: %d slots", len(clalit))

	log.Println("seed complete")
}

func makeBranches(providerID string, count int) []branch {
	branches := make([]branch, count)
	for i := range branches {
		city := cities[gofakeit.Number(0, len(cities)-1)]
		branches[i] = branch{
			ID:      fmt.Sprintf("%s-br-%d", providerID[:1], i+1),
			Name:    fmt.Sprintf("%s %s Clinic", providerID, city),
			Address: gofakeit.Street(),
			City:    city,
		}
	}
	return branches
}

func canonicalSlots(providerID string, base time.Time, days, perDay int) []canonicalSlot {
	branches := makeBranches(providerID, 3)

	var slots []canonicalSlot
	n := 0
	for d := 0; d < days; d++ {
		for i := 0; i < perDay; i++ {
			n++
			start := base.AddDate(0, 0, d).
				Add(time.Duration(8+gofakeit.Number(0, 9)) * time.Hour).
				Add(time.Duration(gofakeit.Number(0, 1)*30) * time.Minute)

			slot := canonicalSlot{
				SlotID:      fmt.Sprintf("%s-%04d", providerID[:3], n),
				DoctorID:    fmt.Sprintf("doc-%s-%02d", providerID[:1], gofakeit.Number(1, 5)),
				StartTime:   start.Format(time.RFC3339),
				IsAvailable: gofakeit.Number(0, 9) < 7,
				Branch:      branches[gofakeit.Number(0, len(branches)-1)],
			}
			// Some feeds omit the end time; the adapter synthesizes it.
			if gofakeit.Bool() {
				slot.EndTime = start.Add(30 * time.Minute).Format(time.RFC3339)
			}
			slots = append(slots, slot)
		}
	}
	return slots
}

func clalitSlots(base time.Time, days, perDay int) []clalitSlot {
	branches := makeBranches("clalit", 3)
	statuses := []string{"Open", "Open", "Open", "Taken", "Blocked"}

	var slots []clalitSlot
	n := 0
	for d := 0; d < days; d++ {
		for i := 0; i < perDay; i++ {
			n++
			start := base.AddDate(0, 0, d).
				Add(time.Duration(8+gofakeit.Number(0, 9)) * time.Hour).
				Add(time.Duration(gofakeit.Number(0, 3)*15) * time.Minute)

			b := branches[gofakeit.Number(0, len(branches)-1)]
			slots = append(slots, clalitSlot{
				SlotID:       fmt.Sprintf("cll-%04d", n),
				DoctorID:     fmt.Sprintf("doc-c-%02d", gofakeit.Number(1, 5)),
				SlotDateTime: start.Format(time.RFC3339),
				Status:       statuses[gofakeit.Number(0, len(statuses)-1)],
				Location: clalitLocation{
					SiteCode: b.ID,
					SiteName: b.Name,
					Address:  b.Address,
					City:     b.City,
				},
			})
		}
	}
	return slots
}

func writeFixture(dir, name string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name+".json"), append(data, '\n'), 0o644)
}
