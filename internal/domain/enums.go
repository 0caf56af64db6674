package domain

import (
	"fmt"
	"strings"
)

// CharacterStatus жизненный статус персонажа.
type CharacterStatus string

const (
	CharacterStatusAlive   CharacterStatus = "alive"
	CharacterStatusDead    CharacterStatus = "dead"
	CharacterStatusUnknown CharacterStatus = "unknown"
)

// CharacterGender пол персонажа.
type CharacterGender string

const (
	CharacterGenderMale    CharacterGender = "male"
	CharacterGenderFemale  CharacterGender = "female"
	CharacterGenderUnknown CharacterGender = "unknown"
)

// CharacterSpecies вид персонажа.
type CharacterSpecies string

const (
	CharacterSpeciesHuman   CharacterSpecies = "human"
	CharacterSpeciesRobot   CharacterSpecies = "robot"
	CharacterSpeciesHead    CharacterSpecies = "head"
	CharacterSpeciesAlien   CharacterSpecies = "alien"
	CharacterSpeciesMutant  CharacterSpecies = "mutant"
	CharacterSpeciesMonster CharacterSpecies = "monster"
	CharacterSpeciesUnknown CharacterSpecies = "unknown"
)

var (
	AllCharacterStatuses = []CharacterStatus{CharacterStatusAlive, CharacterStatusDead, CharacterStatusUnknown}
	AllCharacterGenders  = []CharacterGender{CharacterGenderMale, CharacterGenderFemale, CharacterGenderUnknown}
	AllCharacterSpecies  = []CharacterSpecies{
		CharacterSpeciesHuman, CharacterSpeciesRobot, CharacterSpeciesHead, CharacterSpeciesAlien,
		CharacterSpeciesMutant, CharacterSpeciesMonster, CharacterSpeciesUnknown,
	}
)

// ParseEnum сопоставляет строку (без учета регистра) со значением перечисления.
func ParseEnum[T ~string](raw string, values []T) (T, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for _, v := range values {
		if string(v) == normalized {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unsupported value %q", raw)
}

// EnumStrings возвращает значения перечисления строками.
func EnumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
