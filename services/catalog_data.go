package services

import "github.com/SAsh-1102/AI-Sales-Agent/models"

// defaultProducts is the built-in catalog used when CATALOG_PATH is not
// set. Attributes are sparse; not every product carries every key.
var defaultProducts = []models.Product{
	{
		"name":            "Laptop X",
		"model":           "LPX-100",
		"category":        "laptop",
		"price":           "$999",
		"processor":       "Intel Core i7-1355U",
		"memory":          "16GB DDR5",
		"storage":         "512GB NVMe SSD",
		"display":         "14-inch FHD IPS",
		"graphics":        "Intel Iris Xe",
		"cooling":         "single fan",
		"features":        "backlit keyboard, fingerprint reader",
		"stripe_price_id": "price_1OaLpxA2xKcd93ab",
	},
	{
		"name":            "Laptop Y",
		"model":           "LPY-200",
		"category":        "laptop",
		"price":           "$999",
		"processor":       "Intel Core i5-1335U",
		"memory":          "16GB DDR5",
		"storage":         "1TB NVMe SSD",
		"display":         "15.6-inch FHD IPS",
		"graphics":        "Intel Iris Xe",
		"cooling":         "single fan",
		"features":        "numeric keypad, Wi-Fi 6E",
		"stripe_price_id": "price_1OaLpyB7cQrt41zd",
	},
	{
		"name":            "Gaming Pro 15",
		"model":           "GP15-3070",
		"category":        "gaming laptop",
		"price":           "$1799",
		"processor":       "AMD Ryzen 9 7940HS",
		"memory":          "32GB DDR5",
		"storage":         "1TB NVMe SSD",
		"display":         "15.6-inch QHD 165Hz",
		"graphics":        "NVIDIA RTX 4070 8GB",
		"cooling":         "dual fan vapor chamber",
		"features":        "per-key RGB, MUX switch",
		"stripe_price_id": "price_1OaLpzC3nWfu88qe",
	},
	{
		"name":            "UltraSlim Air",
		"model":           "USA-13",
		"category":        "ultrabook",
		"price":           "$1249",
		"processor":       "Intel Core Ultra 5 125U",
		"memory":          "16GB LPDDR5X",
		"storage":         "512GB NVMe SSD",
		"display":         "13.3-inch 2.8K OLED",
		"graphics":        "Intel Arc integrated",
		"cooling":         "fanless",
		"features":        "1.1kg magnesium body, 20h battery",
		"stripe_price_id": "price_1OaLq0D9mRvw12tf",
	},
	{
		"name":            "WorkStation Tower Z",
		"model":           "WSZ-900",
		"category":        "desktop",
		"price":           "$2499",
		"processor":       "AMD Threadripper 7960X",
		"memory":          "64GB ECC DDR5",
		"storage":         "2TB NVMe SSD + 4TB HDD",
		"graphics":        "NVIDIA RTX 4080 16GB",
		"cooling":         "360mm liquid cooler",
		"features":        "tool-less chassis, 10GbE",
		"stripe_price_id": "price_1OaLq1E5kTgh55uj",
	},
	{
		"name":            "Office Mini",
		"model":           "OM-50",
		"category":        "desktop",
		"price":           "$549",
		"processor":       "Intel Core i5-13400T",
		"memory":          "8GB DDR4",
		"storage":         "256GB NVMe SSD",
		"graphics":        "Intel UHD 730",
		"features":        "VESA mountable, dual HDMI",
		"stripe_price_id": "price_1OaLq2F8pYik77vl",
	},
	{
		"name":            "Creator Book 16",
		"model":           "CB16-OLED",
		"category":        "laptop",
		"price":           "$2199",
		"processor":       "Intel Core i9-13900H",
		"memory":          "32GB DDR5",
		"storage":         "2TB NVMe SSD",
		"display":         "16-inch 4K OLED touch",
		"graphics":        "NVIDIA RTX 4060 8GB",
		"cooling":         "dual fan",
		"features":        "stylus support, SD Express reader",
		"stripe_price_id": "price_1OaLq3G2sZjm34wn",
	},
	{
		"name":            "Budget Book 14",
		"model":           "BB14-N",
		"category":        "laptop",
		"price":           "$449",
		"processor":       "Intel Core i3-N305",
		"memory":          "8GB LPDDR5",
		"storage":         "256GB SSD",
		"display":         "14-inch FHD",
		"graphics":        "Intel UHD",
		"stripe_price_id": "price_1OaLq4H6qAkp90xr",
	},
}
