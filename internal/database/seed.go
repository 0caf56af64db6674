package database

import (
	"fmt"
	"time"

	"futurama-api/internal/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type seedEpisode struct {
	name       string
	airDate    string
	duration   int
	code       string
	broadcast  int
	characters []string
}

var seedSeasons = [][]seedEpisode{
	{
		{"Space Pilot 3000", "1999-03-28", 22, "1ACV01", 1, []string{"Philip J. Fry", "Turanga Leela", "Bender Bending Rodriguez", "Hubert J. Farnsworth"}},
		{"The Series Has Landed", "1999-04-04", 22, "1ACV02", 2, []string{"Philip J. Fry", "Turanga Leela", "Bender Bending Rodriguez", "Amy Wong", "Hermes Conrad"}},
		{"I, Roommate", "1999-04-06", 22, "1ACV03", 3, []string{"Philip J. Fry", "Bender Bending Rodriguez", "John A. Zoidberg"}},
	},
	{
		{"A Flight to Remember", "1999-09-26", 22, "2ACV02", 1, []string{"Philip J. Fry", "Turanga Leela", "Amy Wong", "Zapp Brannigan", "Kif Kroker"}},
		{"Why Must I Be a Crustacean in Love?", "2000-02-06", 22, "2ACV07", 2, []string{"John A. Zoidberg", "Hubert J. Farnsworth", "Hermes Conrad"}},
	},
}

var seedCharacters = []domain.Character{
	{Name: "Philip J. Fry", Status: domain.CharacterStatusAlive, Gender: domain.CharacterGenderMale, Species: domain.CharacterSpeciesHuman},
	{Name: "Turanga Leela", Status: domain.CharacterStatusAlive, Gender: domain.CharacterGenderFemale, Species: domain.CharacterSpeciesMutant},
	{Name: "Bender Bending Rodriguez", Status: domain.CharacterStatusAlive, Gender: domain.CharacterGenderMale, Species: domain.CharacterSpeciesRobot},
	{Name: "Hubert J. Farnsworth", Status: domain.CharacterStatusAlive, Gender: domain.CharacterGenderMale, Species: domain.CharacterSpeciesHuman},
	{Name: "Amy Wong", Status: domain.CharacterStatusAlive, Gender: domain.CharacterGenderFemale, Species: domain.CharacterSpeciesHuman},
	{Name: "Hermes Conrad", Status: domain.CharacterStatusAlive, Gender: domain.CharacterGenderMale, Species: domain.CharacterSpeciesHuman},
	{Name: "John A. Zoidberg", Status: domain.CharacterStatusAlive, Gender: domain.CharacterGenderMale, Species: domain.CharacterSpeciesAlien},
	{Name: "Zapp Brannigan", Status: domain.CharacterStatusAlive, Gender: domain.CharacterGenderMale, Species: domain.CharacterSpeciesHuman},
	{Name: "Kif Kroker", Status: domain.CharacterStatusAlive, Gender: domain.CharacterGenderMale, Species: domain.CharacterSpeciesAlien},
	{Name: "Richard Nixon's Head", Status: domain.CharacterStatusAlive, Gender: domain.CharacterGenderMale, Species: domain.CharacterSpeciesHead},
}

// SeedData заполняет базу данных начальными данными
func SeedData(db *gorm.DB, log *zap.Logger) error {
	log.Info("starting database seeding")

	// Проверяем, есть ли уже данные
	var count int64
	if err := db.Model(&domain.Character{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count characters: %w", err)
	}
	if count > 0 {
		log.Info("characters already exist, skipping seeding", zap.Int64("existing_count", count))
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		characters := make([]domain.Character, len(seedCharacters))
		copy(characters, seedCharacters)
		if err := tx.Omit(clause.Associations).Create(&characters).Error; err != nil {
			return fmt.Errorf("failed to seed characters: %w", err)
		}

		byName := make(map[string]domain.Character, len(characters))
		for _, c := range characters {
			byName[c.Name] = c
		}

		episodes := 0
		for _, seasonEpisodes := range seedSeasons {
			season := domain.Season{}
			if err := tx.Omit(clause.Associations).Create(&season).Error; err != nil {
				return fmt.Errorf("failed to seed season: %w", err)
			}

			for _, e := range seasonEpisodes {
				episode, err := buildSeedEpisode(e, season.ID, byName)
				if err != nil {
					return err
				}
				if err := tx.Create(episode).Error; err != nil {
					return fmt.Errorf("failed to seed episode %q: %w", e.name, err)
				}
				episodes++
			}
		}

		message := domain.SystemMessage{Name: "Hubert J. Farnsworth", Message: "Good news, everyone! The API is up."}
		if err := tx.Create(&message).Error; err != nil {
			return fmt.Errorf("failed to seed system message: %w", err)
		}

		log.Info("database seeding completed",
			zap.Int("characters", len(characters)),
			zap.Int("seasons", len(seedSeasons)),
			zap.Int("episodes", episodes))
		return nil
	})
}

func buildSeedEpisode(e seedEpisode, seasonID int64, characters map[string]domain.Character) (*domain.Episode, error) {
	airDate, err := time.Parse(time.DateOnly, e.airDate)
	if err != nil {
		return nil, fmt.Errorf("invalid air date for %q: %w", e.name, err)
	}

	episode := &domain.Episode{
		Name:            e.name,
		AirDate:         &airDate,
		Duration:        &e.duration,
		ProductionCode:  &e.code,
		BroadcastNumber: &e.broadcast,
		SeasonID:        seasonID,
	}
	for _, name := range e.characters {
		c, ok := characters[name]
		if !ok {
			return nil, fmt.Errorf("unknown seed character %q", name)
		}
		episode.Characters = append(episode.Characters, c)
	}

	return episode, nil
}
