package crdt

import "github.com/iudanet/vocabsync/internal/models"

// Decision описывает результат сравнения локальной и облачной версии значения.
type Decision int

const (
	// Equal версии совпадают по времени, ничего делать не нужно
	Equal Decision = iota
	// KeepLocal локальная версия новее и должна быть отправлена в облако
	KeepLocal
	// TakeCloud облачная версия новее и должна заменить локальную
	TakeCloud
)

// String returns a human-readable decision name for logs.
func (d Decision) String() string {
	switch d {
	case KeepLocal:
		return "keep_local"
	case TakeCloud:
		return "take_cloud"
	default:
		return "equal"
	}
}

// Resolve применяет правило Last-Write-Wins к двум версиям одного ключа.
// Побеждает версия с большим timestamp. При равных timestamp
// версии считаются согласованными: tie-breaker не используется.
func Resolve(local, cloud models.StampedValue) Decision {
	switch {
	case cloud.IsNewerThan(local):
		return TakeCloud
	case local.IsNewerThan(cloud):
		return KeepLocal
	default:
		return Equal
	}
}
