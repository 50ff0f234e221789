package catalog

// Prices are whole currency units. The same identifier may appear in two
// different catalogs at different prices (e.g. online-booking below and in
// AddonServices): they are separate bundling contexts, not duplicates of
// one item.

// Packages is the top-level website package list. There is exactly one
// package today; the quoting UI treats this as a list so more can be
// added without a shape change.
var Packages = []Package{
	{
		ID:          "hvac-appliance-website",
		Name:        "HVAC & Appliance Repair Website",
		Price:       1200,
		Timeline:    "2-3 weeks",
		Description: "Complete marketing website for a heating, cooling and appliance repair business, built to convert service calls.",
		Features: []string{
			"Mobile-first responsive design",
			"Service catalog with transparent pricing",
			"Click-to-call and quote request forms",
			"Google Business Profile integration",
			"Basic on-page SEO setup",
		},
	},
}

// AdditionalFeatures are optional extras quoted on top of a package.
var AdditionalFeatures = []Feature{
	{ID: "online-booking", Name: "Online Booking Calendar", Price: 250, Icon: "calendar", Description: "Customers pick a service window themselves; syncs with your dispatch calendar."},
	{ID: "review-widget", Name: "Review Showcase Widget", Price: 120, Icon: "star", Description: "Pulls your latest Google reviews onto the homepage."},
	{ID: "financing-page", Name: "Financing Options Page", Price: 150, Icon: "credit-card", Description: "Explains financing partners and payment plans for big-ticket repairs."},
	{ID: "seasonal-banner", Name: "Seasonal Promo Banner", Price: 90, Icon: "megaphone", Description: "Swappable banner for tune-up season specials."},
	{ID: "spanish-version", Name: "Spanish Language Version", Price: 400, Icon: "globe", Description: "Full translation of every page and form."},
}

// SiteComponents backs the a-la-carte component picker.
var SiteComponents = Components{
	Pages: []Component{
		{ID: "page-home", Name: "Home Page", Price: 200, Icon: "home"},
		{ID: "page-services", Name: "Services Page", Price: 150, Icon: "wrench"},
		{ID: "page-about", Name: "About Us Page", Price: 100, Icon: "users"},
		{ID: "page-contact", Name: "Contact Page", Price: 100, Icon: "mail"},
		{ID: "page-reviews", Name: "Reviews Page", Price: 120, Icon: "star"},
	},
	Features: []Component{
		{ID: "quote-form", Name: "Instant Quote Form", Price: 180, Icon: "clipboard"},
		{ID: "click-to-call", Name: "Click-to-Call Buttons", Price: 60, Icon: "phone"},
		{ID: "photo-gallery", Name: "Job Photo Gallery", Price: 110, Icon: "camera"},
		{ID: "faq-section", Name: "FAQ Section", Price: 80, Icon: "help-circle"},
	},
	Technical: []Component{
		{ID: "ssl-setup", Name: "SSL Certificate Setup", Price: 50, Icon: "lock"},
		{ID: "analytics", Name: "Analytics Integration", Price: 70, Icon: "bar-chart"},
		{ID: "local-seo", Name: "Local SEO Schema", Price: 140, Icon: "map-pin"},
		{ID: "speed-optimization", Name: "Page Speed Optimization", Price: 130, Icon: "zap"},
	},
}

// AddonServices are recurring or bundled services. online-booking here is
// the managed-bundle price, distinct from the one-time build price above.
var AddonServices = []Feature{
	{ID: "online-booking", Name: "Managed Online Booking", Price: 35, Icon: "calendar", Description: "Monthly managed booking service including calendar support."},
	{ID: "maintenance-plan", Name: "Site Maintenance Plan", Price: 45, Icon: "shield", Description: "Monthly updates, backups and uptime monitoring."},
	{ID: "google-ads", Name: "Google Ads Management", Price: 300, Icon: "trending-up", Description: "Monthly local service ads management."},
	{ID: "content-updates", Name: "Content Update Pack", Price: 75, Icon: "edit", Description: "Up to five content changes per month."},
}

// EmergencyServices are the emergency call-out tiers shown on the
// pricing page.
var EmergencyServices = []EmergencyTier{
	{ID: "emergency-standard", Name: "Standard Emergency", Price: 150, ResponseTime: "Same day", Description: "Same-day dispatch during business hours."},
	{ID: "emergency-priority", Name: "Priority Emergency", Price: 225, ResponseTime: "Within 4 hours", Description: "Jump-the-queue dispatch, seven days a week."},
	{ID: "emergency-247", Name: "24/7 Emergency", Price: 350, ResponseTime: "Within 2 hours", Description: "Nights, weekends and holidays included."},
}

// ServiceAreas are the coverage zone variants.
var ServiceAreas = []ServiceArea{
	{ID: "zone-core", Name: "Core Metro Zone", Price: 0, RadiusMiles: 15, ResponseTime: "Same day"},
	{ID: "zone-extended", Name: "Extended Zone", Price: 40, RadiusMiles: 30, ResponseTime: "Next day"},
	{ID: "zone-rural", Name: "Rural Zone", Price: 85, RadiusMiles: 60, ResponseTime: "Within 2 days"},
}

// HVACFeatures lists heating/cooling service capabilities.
var HVACFeatures = []Feature{
	{ID: "hvac-furnace-repair", Name: "Furnace Repair & Tune-Up", Price: 0, Icon: "flame", Brands: []string{"Carrier", "Trane", "Lennox", "Rheem"}},
	{ID: "hvac-ac-repair", Name: "A/C Repair & Recharge", Price: 0, Icon: "snowflake", Brands: []string{"Carrier", "Goodman", "York"}},
	{ID: "hvac-duct-cleaning", Name: "Duct Cleaning", Price: 0, Icon: "wind"},
	{ID: "hvac-thermostat", Name: "Smart Thermostat Install", Price: 0, Icon: "thermometer", Brands: []string{"Nest", "Ecobee", "Honeywell"}},
}

// ApplianceFeatures lists appliance repair capabilities.
var ApplianceFeatures = []Feature{
	{ID: "appliance-washer-dryer", Name: "Washer & Dryer Repair", Price: 0, Icon: "refresh-cw", Brands: []string{"Whirlpool", "LG", "Samsung", "Maytag"}},
	{ID: "appliance-refrigerator", Name: "Refrigerator Repair", Price: 0, Icon: "box", Brands: []string{"GE", "Whirlpool", "Frigidaire"}},
	{ID: "appliance-dishwasher", Name: "Dishwasher Repair", Price: 0, Icon: "droplet", Brands: []string{"Bosch", "KitchenAid", "Whirlpool"}},
	{ID: "appliance-oven-range", Name: "Oven & Range Repair", Price: 0, Icon: "square", Brands: []string{"GE", "Samsung", "LG"}},
}

// ContactFeatures lists the ways customers can reach the shop, surfaced
// on the contact section of the quote tool.
var ContactFeatures = []Feature{
	{ID: "contact-phone", Name: "24/7 Phone Line", Price: 0, Icon: "phone", Description: "Live dispatcher around the clock."},
	{ID: "contact-text", Name: "Text Us", Price: 0, Icon: "message-square", Description: "Text photos of your unit for a faster diagnosis."},
	{ID: "contact-form", Name: "Quote Request Form", Price: 0, Icon: "clipboard", Description: "Describe the problem and get a ballpark within one business day."},
}
