package get_available_slots

import "time"

// Request модель запроса на получение свободных слотов одного мастера
type Request struct {
	TechnicianID int64     // ID мастера (может указывать на "No Preference")
	ServiceIDs   []int64   // услуги в порядке выполнения, повторы допустимы
	Date         time.Time // дата без времени
}

// Response модель ответа со списком свободных слотов
type Response struct {
	Date           time.Time   // полночь дня в часовом поясе салона
	TechnicianID   int64       // ID мастера (0 для "No Preference")
	TechnicianName string      // имя мастера
	TotalMinutes   int         // суммарная длительность услуг
	Slots          []time.Time // времена начала по возрастанию, пустой список - нет мест
}
