package tasks

import "fmt"

// fixtures covers every status so a fresh install shows each card color
var fixtures = []Fields{
	{Title: "Buy milk", Description: "Whole milk, two bottles", Status: string(StatusTodo)},
	{Title: "Book dentist appointment", Description: "", Status: string(StatusTodo)},
	{Title: "Deploy release 1.4", Description: "Staging first, then production", Status: string(StatusInProgress)},
	{Title: "Write quarterly report", Description: "Numbers from the finance sheet", Status: string(StatusDone)},
	{Title: "Renew passport", Description: "Waiting on new photos", Status: string(StatusBlocked)},
}

// SeedFixtures fills an empty store with sample tasks
func SeedFixtures(s *Store) error {
	if n := s.Len(); n > 0 {
		return fmt.Errorf("store already holds %d tasks", n)
	}
	for _, f := range fixtures {
		if _, err := s.Create(f.Title, f.Description, f.Status); err != nil {
			return fmt.Errorf("adding fixture %q: %w", f.Title, err)
		}
	}
	return nil
}
