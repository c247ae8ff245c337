package services

import "errors"

// Общие ошибки сервисного слоя, используемые в маппинге HTTP.
var (
	// Ресурс не найден
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrChallengeNotFound   = errors.New("challenge not found")

	// Ошибки валидации входных параметров
	ErrInvalidPlayerID      = errors.New("player id must be positive")
	ErrInvalidCompetitionID = errors.New("competition id must be positive")
	ErrInvalidSideFilter    = errors.New("side filter must be one of both, axis, allies")
	ErrInvalidStatusFilter  = errors.New("max global status must be between 0 and 3")

	// Вызов outcome для незавершённого вызова
	ErrChallengeNotResolved = errors.New("challenge is not completed")
)
