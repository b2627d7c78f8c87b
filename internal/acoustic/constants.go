package acoustic

// Atmosphere and gas constants
const (
	atmosphericPressure = 101315.0 // Pa
	gasConstantDryAir   = 287.05   // J/(kg·K)
	gasConstantVapour   = 461.5    // J/(kg·K)
	celsiusToKelvin     = 273.15

	// Saturation vapour pressure sub-expression coefficients (hPa based)
	magnusBase        = 6.112  // hPa
	magnusCoefficient = 17.62  // dimensionless
	magnusTemperature = 243.12 // K
	hectopascal       = 100.0  // Pa per hPa
)

// Speed of sound linear approximation
const (
	speedOfSoundAt0C        = 331.3  // m/s
	speedOfSoundPerDegree   = 0.606  // m/s per °C
	speedOfSoundPerHumidity = 0.0124 // m/s per unit relative humidity
)

// Sutherland's formula for the dynamic viscosity of air
const (
	sutherlandReferenceViscosity = 1.716e-5 // Pa·s
	sutherlandReferenceTemp      = 273.15   // K
	sutherlandConstant           = 111.0    // K
	sutherlandExponent           = 1.5
)

// Valid ranges for ambient conditions
const (
	minTemperatureC = -50.0
	maxTemperatureC = 60.0
	minHumidity     = 0.0
	maxHumidity     = 1.0
)

// Default ambient conditions
const (
	DefaultTemperatureC = 20.0
	DefaultHumidity     = 0.5
)

// Aperture constants
const (
	tubeOpenEndFactor   = 0.6  // end correction per radius, unflanged
	tubeFlangeEndFactor = 0.85 // end correction per radius, flanged

	minAmount     = 1
	maxAmount     = 100
	defaultAmount = 1
)

// Impedance model constants
const (
	// k·r limits for the validity of the radiation approximation and for the
	// viscous boundary-layer friction regime.
	radiationKRLimit = 0.5
	frictionKRLimit  = 0.2

	// Friction impedance prefactor: 8·ν·ρ·L / (r²·S)
	frictionFactor = 8.0
)

// Frequency grid defaults and limits
const (
	DefaultMinFrequency    = 0.01  // Hz
	DefaultMaxFrequency    = 500.0 // Hz
	DefaultValuesPerOctave = 100

	minGridPoints   = 2
	maxGridPoints   = 1 << 18
	maxAngleDegrees = 90.0
)

// Common division constants
const (
	halfDivisor = 2.0
)
