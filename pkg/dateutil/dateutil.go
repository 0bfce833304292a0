package dateutil

import (
	"math"
	"time"
)

// Truncate ramène un instant à minuit dans son fuseau horaire.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysUntil retourne le nombre de jours entre aujourd'hui et la date donnée.
// Négatif si la date est déjà passée (document expiré).
func DaysUntil(t time.Time) int {
	return DaysUntilFrom(time.Now(), t)
}

// DaysUntilFrom calcule l'écart en jours calendaires entre deux instants.
// Les deux dates sont ramenées à minuit ; l'arrondi absorbe les heures
// d'été/hiver.
func DaysUntilFrom(from, to time.Time) int {
	f := Truncate(from)
	d := Truncate(to)
	return int(math.Round(d.Sub(f).Hours() / 24))
}
