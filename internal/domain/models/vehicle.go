package models

type Driver struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// Vehicle is a truck, van or forklift of the fleet.
type Vehicle struct {
	ID           int64   `json:"id"`
	LicensePlate string  `json:"licensePlate"`
	Brand        string  `json:"brand,omitempty"`
	Model        string  `json:"model,omitempty"`
	VehicleType  string  `json:"vehicleType,omitempty"`
	MainDriver   *Driver `json:"mainDriver,omitempty"`
	BackupDriver *Driver `json:"backupDriver,omitempty"`
	ImageURL     string  `json:"imageUrl,omitempty"`
}

// VehiclePayload is the create/update body for vehicles.
type VehiclePayload struct {
	LicensePlate   string `json:"licensePlate" binding:"required"`
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	VehicleType    string `json:"vehicleType" binding:"omitempty,oneof=truck van forklift pickup other"`
	MainDriverID   *int64 `json:"mainDriverId"`
	BackupDriverID *int64 `json:"backupDriverId"`
	ImageURL       string `json:"imageUrl"`
}

// Customer is used as a grouping key only.
type Customer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
