package settings

import "errors"

var (
	// ErrSettingNotFound возвращается, когда настройка не задана
	ErrSettingNotFound = errors.New("settings.repository: setting not found")

	// ErrBusinessHoursNotFound возвращается, когда для дня недели нет часов работы
	ErrBusinessHoursNotFound = errors.New("settings.repository: business hours not found")

	// ErrInvalidValue возвращается, когда значение в БД не удается разобрать
	ErrInvalidValue = errors.New("settings.repository: invalid stored value")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("settings.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("settings.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("settings.repository: failed to scan row")
)
