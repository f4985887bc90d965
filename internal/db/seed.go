// internal/db/seed.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/WAJoseph/christian-martyrs-honor/internal/models"
	"github.com/WAJoseph/christian-martyrs-honor/internal/repo"
)

type seedCentury struct {
	century string
	entries []models.TimelineMartyr
}

var seedTimeline = []seedCentury{
	{"1st Century", []models.TimelineMartyr{
		{Name: "St. Stephen", Year: "AD 36", Description: "First Christian martyr, stoned in Jerusalem"},
		{Name: "St. James", Year: "AD 62", Description: "Brother of Jesus, thrown from temple"},
	}},
	{"2nd Century", []models.TimelineMartyr{
		{Name: "St. Ignatius", Year: "AD 108", Description: "Bishop of Antioch, fed to lions in Rome"},
		{Name: "St. Polycarp", Year: "AD 155", Description: "Bishop of Smyrna, burned at stake"},
	}},
	{"3rd Century", []models.TimelineMartyr{
		{Name: "St. Perpetua", Year: "AD 203", Description: "Young mother martyred in Carthage"},
		{Name: "St. Lawrence", Year: "AD 258", Description: "Deacon martyred during Valerian persecution"},
	}},
	{"4th Century", []models.TimelineMartyr{
		{Name: "St. Sebastian", Year: "AD 288", Description: "Roman soldier martyred by arrows"},
		{Name: "St. Agnes", Year: "AD 304", Description: "Young virgin martyred in Rome"},
	}},
}

var seedMartyrs = []models.Martyr{
	{Name: "St. Stephen", Title: "First Martyr", FeastDay: "December 27", Year: "AD 36", Era: models.EraApostolic,
		IconURL: "/st-stephen-the-first-martyr.jpg", Description: "First Christian martyr, stoned in Jerusalem",
		Prayer: "Holy Stephen, first martyr, pray for us"},
	{Name: "St. Ignatius", Title: "of Antioch", FeastDay: "December 20", Year: "AD 108", Era: models.EraApostolic,
		IconURL: "/saint-ignatius-antioch.jpg", Description: "Bishop thrown to wild beasts in Roman Colosseum",
		Prayer: "Holy Ignatius of Antioch, pray for us"},
	{Name: "St. Polycarp", Title: "Bishop of Smyrna", FeastDay: "February 23", Year: "AD 155", Era: models.EraApostolic,
		IconURL: "/st-Polycarp.jpg", Description: "Disciple of St. John the Apostle, burned at the stake",
		Prayer: "Holy Polycarp, bishop and martyr, pray for us"},
	{Name: "St. Perpetua", Title: "Noble Martyr", FeastDay: "March 7", Year: "AD 203", Era: models.EraPatristic,
		IconURL: "/st-Perpetua.jpg", Description: "Young mother martyred in Carthage with her servant Felicity",
		Prayer: "Holy Perpetua and Felicity, pray for us"},
	{Name: "St. Lawrence", Title: "Deacon Martyr", Year: "AD 258", Era: models.EraPatristic,
		IconURL: "/st-Laurence.jpg", Description: "Deacon martyred during Valerian persecution",
		Prayer: "Holy Lawrence, deacon and martyr, pray for us"},
	{Name: "St. Agnes", Title: "Virgin Martyr", FeastDay: "January 21", Year: "AD 304", Era: models.EraPatristic,
		IconURL: "/st-Agnes.JPG", Description: "Young virgin martyred in Rome during Diocletian persecution",
		Prayer: "Holy Agnes, virgin and martyr, pray for us"},
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var seedTestimonies = []models.Testimony{
	{Name: "Maria S.", Title: "Finding Strength in St. Perpetua",
		Content: "As a young mother facing difficulties, reading about St. Perpetua's courage gave me the strength to persevere through my trials.",
		Date:    day(2024, time.December, 1), Status: models.TestimonyApproved},
	{Name: "Father Michael", Title: "The Witness of Polycarp",
		Content: "In my 30 years of ministry, I've often returned to the example of St. Polycarp.",
		Date:    day(2024, time.November, 1), Status: models.TestimonyApproved},
	{Name: "David K.", Title: "Stephen's Forgiveness",
		Content: "Learning about St. Stephen's prayer for his persecutors transformed how I handle conflict.",
		Date:    day(2024, time.November, 1), Status: models.TestimonyApproved},
	{Name: "Sister Catherine", Title: "Agnes and Pure Love",
		Content: "St. Agnes shows us that age is no barrier to heroic sanctity.",
		Date:    day(2024, time.October, 1), Status: models.TestimonyApproved},
}

// Seed replaces the archive with the demo data set in one transaction.
// Seeded testimonies are approved so the public list is not empty.
func Seed(ctx context.Context, db *sql.DB) error {
	return repo.WithTx(ctx, db, func(ctx context.Context, r repo.Repo) error {
		return seed(ctx, r)
	})
}

func seed(ctx context.Context, r repo.Repo) error {
	if err := r.ResetArchive(ctx); err != nil {
		return err
	}

	martyrIDs := make(map[string]int64, len(seedMartyrs))
	for _, m := range seedMartyrs {
		created, err := r.CreateMartyr(ctx, m)
		if err != nil {
			return fmt.Errorf("seed martyr %q: %w", m.Name, err)
		}
		martyrIDs[created.Name] = created.ID
	}

	for _, block := range seedTimeline {
		c, err := r.CreateCentury(ctx, block.century)
		if err != nil {
			return fmt.Errorf("seed century %q: %w", block.century, err)
		}
		for _, e := range block.entries {
			entry := models.TimelineEntry{Name: e.Name, Year: e.Year, Description: e.Description, CenturyID: c.ID}
			if id, ok := martyrIDs[e.Name]; ok {
				entry.MartyrID = &id
			}
			if _, err := r.CreateEntry(ctx, entry); err != nil {
				return fmt.Errorf("seed timeline entry %q: %w", e.Name, err)
			}
		}
	}

	for _, t := range seedTestimonies {
		if _, err := r.CreateTestimony(ctx, t); err != nil {
			return fmt.Errorf("seed testimony %q: %w", t.Title, err)
		}
	}

	slog.InfoContext(ctx, "database seeded",
		"martyrs", len(seedMartyrs), "centuries", len(seedTimeline), "testimonies", len(seedTestimonies))
	return nil
}
