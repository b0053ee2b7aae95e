package model

// DashboardCounts aggregates the numbers shown on the main dashboard.
// The counts are re-read from the database on a timer; no value here
// is authoritative beyond the moment it was queried.
type DashboardCounts struct {
	RoomsTotal         int `json:"rooms_total"`
	RoomsOccupied      int `json:"rooms_occupied"`
	EquipmentTotal     int `json:"equipment_total"`
	EquipmentAvailable int `json:"equipment_available"`
	EquipmentInUse     int `json:"equipment_in_use"`
	EquipmentDamaged   int `json:"equipment_damaged"`
	OpenRoomLoans      int `json:"open_room_loans"`
	OpenEquipmentLoans int `json:"open_equipment_loans"`
	Students           int `json:"students"`
	Professors         int `json:"professors"`
}
