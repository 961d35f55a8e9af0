package lifecycle

import "fmt"

// Outcome: итог прошедшего курса для конкретного студента. Не хранится, а вычисляется.
type Outcome string

const (
	Expired   Outcome = "EXPIRED"
	Absent    Outcome = "ABSENT"
	Completed Outcome = "COMPLETED"
)

// DeriveOutcome: без записи EXPIRED, с хотя бы одним Present COMPLETED, иначе ABSENT.
func DeriveOutcome(everRegistered bool, presentCount int) Outcome {
	switch {
	case !everRegistered:
		return Expired
	case presentCount > 0:
		return Completed
	default:
		return Absent
	}
}

// State - жизненный цикл курса. Active <-> Archived, Purge необратим.
type State string

const (
	Active   State = "active"
	Archived State = "archived"
	Purged   State = "purged"
)

type Action string

const (
	ActionArchive Action = "archive"
	ActionRestore Action = "restore"
	ActionPurge   Action = "purge"
)

// StateOf переводит флаг is_deleted в состояние.
func StateOf(isDeleted bool) State {
	if isDeleted {
		return Archived
	}
	return Active
}

// TransitionError: недопустимый переход.
type TransitionError struct {
	From   State
	Action Action
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a course in state %s", e.Action, e.From)
}

// Transition возвращает новое состояние или *TransitionError.
func Transition(from State, a Action) (State, error) {
	switch {
	case from == Active && a == ActionArchive:
		return Archived, nil
	case from == Archived && a == ActionRestore:
		return Active, nil
	case (from == Active || from == Archived) && a == ActionPurge:
		return Purged, nil
	}
	return from, &TransitionError{From: from, Action: a}
}
