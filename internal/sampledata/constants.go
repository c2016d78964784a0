package sampledata

import "time"

// Default generator configuration constants.
const (
	DefaultMembers      = 120
	DefaultVisitors     = 3
	DefaultDays         = 5
	DefaultSeed         = 2026
	DefaultLogName      = "registros.txt"
	DefaultRegistryName = "padron.csv"
	DefaultSheet        = "Base de datos (nueva)"
)

// Attendance probabilities per member and day, in percent.
const (
	breakfastChance   = 55
	lunchChance       = 80
	doubleTapChance   = 4
	nameOnlyChance    = 3
	offWindowChance   = 2
	malformedPerDay   = 1
	firstMemberID     = 20260001
	visitorIDOffset   = 90000000
	timestampLayout   = "02/01/2006 15:04:05"
	breakfastStartMin = 8*60 + 30
	breakfastSpanMin  = 3*60 + 45
	lunchStartMin     = 12*60 + 25
	lunchSpanMin      = 4*60 + 5
	lateStartMin      = 17 * 60
	lateSpanMin       = 3 * 60
	secondsPerMinute  = 60
	hoursPerDay       = 24 * time.Hour
)

var (
	firstNames  = []string{"Ana", "Luis", "María", "José", "Eva", "Carlos", "Lucía", "Jorge", "Sofía", "Diego", "Elena", "Raúl"}
	lastNames   = []string{"Ruiz", "Mora", "Sol", "García", "Pérez", "López", "Díaz", "Núñez", "Vega", "Castro", "Ortiz", "Ramos"}
	departments = []string{"Becarios", "Posgrado", "Licenciatura"}
	subsidies   = []int{0, 5, 10, 12, 15, 20}
)
