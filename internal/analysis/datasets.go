package analysis

// Remote dataset identifiers and band names.
const (
	corineImage = "COPERNICUS/CORINE/V20/100m/2018"
	corineBand  = "landcover"

	cglsCollection = "COPERNICUS/Landcover/100m/Proba-V-C3/Global"
	cglsBand       = "discrete_classification"

	modisNDVICollection = "MODIS/061/MOD13Q1"
	modisNDVIBand       = "NDVI"
	modisNDVIScale      = 0.0001

	sentinel2Collection = "COPERNICUS/S2_HARMONIZED"
	sentinel2CloudField = "CLOUDY_PIXEL_PERCENTAGE"
	sentinel2NIR        = "B8"
	sentinel2Red        = "B4"

	landsatCollection = "LANDSAT/LC09/C02/T1_L2"
	landsatCloudField = "CLOUD_COVER"
	landsatThermal    = "ST_B10"
	landsatQA         = "QA_PIXEL"

	modisLSTCollection = "MODIS/061/MOD11A1"
	modisLSTBand       = "LST_Day_1km"
	modisLSTQC         = "QC_Day"
	modisLSTScale      = 0.02

	geoBoundariesTable = "WM/geoLab/geoBoundaries/600/ADM0"
	geoBoundariesKey   = "shapeName"
	lsibTable          = "USDOS/LSIB_SIMPLE/2017"
	lsibKey            = "country_na"
	gaulTable          = "FAO/GAUL/2015/level0"
	gaulKey            = "ADM0_NAME"
)

// CORINE level-3 codes.
const (
	corineBroadLeaved = 311
	corineConiferous  = 312
	corineMixedForest = 313

	// Agricultural areas span the 2xx codes.
	corineAgricultureMin = 200
	corineAgricultureMax = 300
)

// CGLS discrete classification codes.
const (
	cglsBroadLeaved = 40
	cglsConiferous  = 50
	cglsCropland    = 30
)

// DefaultCloudMax is the cloud cover percentage above which scenes are dropped.
const DefaultCloudMax = 50

// zeroCelsius converts Kelvin to Celsius.
const zeroCelsius = 273.15

// Fallback gap fill is resampled onto the Landsat grid.
const (
	gapFillCRS   = "EPSG:4326"
	gapFillScale = 30
)
