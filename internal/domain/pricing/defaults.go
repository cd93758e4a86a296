package pricing

import "time"

// DefaultCatalog returns the built-in Sri Lanka pricing tables. Production
// deployments may load an admin-managed catalog instead; the engine only
// cares that Validate passes.
func DefaultCatalog() *Catalog {
	c := &Catalog{
		Destinations: map[string]Destination{
			"sigiriya":     {ID: "sigiriya", Name: "Sigiriya (Lion Rock)", Region: "Cultural Triangle", DistanceFromColomboKm: 170, EntranceFeeAdultCents: 3000, EntranceFeeChildCents: 1500, SuggestedDurationDays: 0.5},
			"dambulla":     {ID: "dambulla", Name: "Dambulla Cave Temple", Region: "Cultural Triangle", DistanceFromColomboKm: 150, EntranceFeeAdultCents: 1500, EntranceFeeChildCents: 800, SuggestedDurationDays: 0.25},
			"polonnaruwa":  {ID: "polonnaruwa", Name: "Polonnaruwa Ancient City", Region: "Cultural Triangle", DistanceFromColomboKm: 215, EntranceFeeAdultCents: 2500, EntranceFeeChildCents: 1200, SuggestedDurationDays: 0.5},
			"anuradhapura": {ID: "anuradhapura", Name: "Anuradhapura Sacred City", Region: "Cultural Triangle", DistanceFromColomboKm: 200, EntranceFeeAdultCents: 2500, EntranceFeeChildCents: 1200, SuggestedDurationDays: 0.5},
			"kandy":        {ID: "kandy", Name: "Kandy", Region: "Hill Country", DistanceFromColomboKm: 120, EntranceFeeAdultCents: 1500, EntranceFeeChildCents: 800, SuggestedDurationDays: 1},
			"nuwaraEliya":  {ID: "nuwaraEliya", Name: "Nuwara Eliya", Region: "Hill Country", DistanceFromColomboKm: 180, SuggestedDurationDays: 1},
			"ella":         {ID: "ella", Name: "Ella", Region: "Hill Country", DistanceFromColomboKm: 200, SuggestedDurationDays: 1.5},
			"yala":         {ID: "yala", Name: "Yala National Park", Region: "South Coast", DistanceFromColomboKm: 305, SuggestedDurationDays: 1},
			"udawalawe":    {ID: "udawalawe", Name: "Udawalawe National Park", Region: "South", DistanceFromColomboKm: 170, SuggestedDurationDays: 0.5},
			"minneriya":    {ID: "minneriya", Name: "Minneriya National Park", Region: "Cultural Triangle", DistanceFromColomboKm: 180, SuggestedDurationDays: 0.5},
			"wilpattu":     {ID: "wilpattu", Name: "Wilpattu National Park", Region: "North West", DistanceFromColomboKm: 180, SuggestedDurationDays: 1},
			"sinharaja":    {ID: "sinharaja", Name: "Sinharaja Rainforest", Region: "South", DistanceFromColomboKm: 150, EntranceFeeAdultCents: 2000, EntranceFeeChildCents: 1000, SuggestedDurationDays: 1},
			"mirissa":      {ID: "mirissa", Name: "Mirissa", Region: "South Coast", DistanceFromColomboKm: 150, SuggestedDurationDays: 2},
			"unawatuna":    {ID: "unawatuna", Name: "Unawatuna", Region: "South Coast", DistanceFromColomboKm: 130, SuggestedDurationDays: 2},
			"bentota":      {ID: "bentota", Name: "Bentota", Region: "West Coast", DistanceFromColomboKm: 65, SuggestedDurationDays: 2},
			"arugamBay":    {ID: "arugamBay", Name: "Arugam Bay", Region: "East Coast", DistanceFromColomboKm: 320, SuggestedDurationDays: 3},
			"trincomalee":  {ID: "trincomalee", Name: "Trincomalee", Region: "East Coast", DistanceFromColomboKm: 260, SuggestedDurationDays: 2},
			"galle":        {ID: "galle", Name: "Galle Fort", Region: "South Coast", DistanceFromColomboKm: 130, SuggestedDurationDays: 0.5},
			"pinnawala":    {ID: "pinnawala", Name: "Pinnawala Elephant Orphanage", Region: "Central", DistanceFromColomboKm: 90, EntranceFeeAdultCents: 2500, EntranceFeeChildCents: 1300, SuggestedDurationDays: 0.25},
			"colombo":      {ID: "colombo", Name: "Colombo City", Region: "Western", DistanceFromColomboKm: 0, SuggestedDurationDays: 1},
			"jaffna":       {ID: "jaffna", Name: "Jaffna", Region: "Northern", DistanceFromColomboKm: 400, SuggestedDurationDays: 2},
		},
		Vehicles: map[string]Vehicle{
			"sedan":   {ID: "sedan", Name: "Sedan (Toyota Axio/Premio)", MaxPassengers: 3, MaxLuggage: 2, PerDayCents: 5500, ExtraKmRateCents: 8, IncludedKmPerDay: 100},
			"suv":     {ID: "suv", Name: "SUV (Toyota Prado/Fortuner)", MaxPassengers: 5, MaxLuggage: 4, PerDayCents: 8500, ExtraKmRateCents: 12, IncludedKmPerDay: 100},
			"van":     {ID: "van", Name: "Mini Van (Toyota KDH)", MaxPassengers: 7, MaxLuggage: 6, PerDayCents: 7500, ExtraKmRateCents: 10, IncludedKmPerDay: 100},
			"luxury":  {ID: "luxury", Name: "Luxury Van (Mercedes V-Class)", MaxPassengers: 6, MaxLuggage: 5, PerDayCents: 15000, ExtraKmRateCents: 15, IncludedKmPerDay: 100},
			"miniBus": {ID: "miniBus", Name: "Mini Bus (Toyota Coaster)", MaxPassengers: 14, MaxLuggage: 14, PerDayCents: 12000, ExtraKmRateCents: 14, IncludedKmPerDay: 100},
		},
		Tiers: map[string]AccommodationTier{
			"budget":   {ID: "budget", Name: "Budget (2-3 Star)", Description: "Clean, comfortable guesthouses & budget hotels", NightlyRateCents: 3500},
			"standard": {ID: "standard", Name: "Standard (3-4 Star)", Description: "Quality hotels with good amenities", NightlyRateCents: 6500},
			"superior": {ID: "superior", Name: "Superior (4-5 Star)", Description: "Premium hotels & boutique properties", NightlyRateCents: 13000},
			"luxury":   {ID: "luxury", Name: "Luxury (5 Star Deluxe)", Description: "Ultra-luxury resorts & villas", NightlyRateCents: 28000},
		},
		Activities: map[string]Activity{
			"yalaSafari":           {ID: "yalaSafari", Name: "Yala Safari (Half Day)", Category: "safari", PricePerPersonCents: 4500, Duration: "4-5 hours", DestinationID: "yala"},
			"yalaSafariFull":       {ID: "yalaSafariFull", Name: "Yala Safari (Full Day)", Category: "safari", PricePerPersonCents: 7500, Duration: "8-10 hours", DestinationID: "yala"},
			"udawalaweSafari":      {ID: "udawalaweSafari", Name: "Udawalawe Safari", Category: "safari", PricePerPersonCents: 4000, Duration: "4 hours", DestinationID: "udawalawe"},
			"minneriyaSafari":      {ID: "minneriyaSafari", Name: "Minneriya Safari", Category: "safari", PricePerPersonCents: 4000, Duration: "4 hours", DestinationID: "minneriya"},
			"wilpattuSafari":       {ID: "wilpattuSafari", Name: "Wilpattu Safari (Full Day)", Category: "safari", PricePerPersonCents: 6500, Duration: "8 hours", DestinationID: "wilpattu"},
			"whaleWatchingMirissa": {ID: "whaleWatchingMirissa", Name: "Whale Watching (Mirissa)", Category: "water", PricePerPersonCents: 5500, Duration: "5-6 hours", DestinationID: "mirissa"},
			"whaleWatchingTrinco":  {ID: "whaleWatchingTrinco", Name: "Whale Watching (Trincomalee)", Category: "water", PricePerPersonCents: 5000, Duration: "5-6 hours", DestinationID: "trincomalee"},
			"snorkeling":           {ID: "snorkeling", Name: "Snorkeling Trip", Category: "water", PricePerPersonCents: 2500, ChildPriced: true, Duration: "2-3 hours"},
			"divingCourse":         {ID: "divingCourse", Name: "PADI Open Water Course", Category: "water", PricePerPersonCents: 35000, Duration: "3-4 days"},
			"surfingLesson":        {ID: "surfingLesson", Name: "Surfing Lesson", Category: "water", PricePerPersonCents: 3000, Duration: "2 hours", DestinationID: "arugamBay"},
			"whitewaterRafting":    {ID: "whitewaterRafting", Name: "Whitewater Rafting (Kitulgala)", Category: "adventure", PricePerPersonCents: 4000, Duration: "3-4 hours"},
			"hotAirBalloon":        {ID: "hotAirBalloon", Name: "Hot Air Balloon (Sigiriya)", Category: "adventure", PricePerPersonCents: 22000, Duration: "1 hour flight", DestinationID: "sigiriya"},
			"zipline":              {ID: "zipline", Name: "Flying Ravana Zipline", Category: "adventure", PricePerPersonCents: 4500, Duration: "30 mins", DestinationID: "ella"},
			"cookingClass":         {ID: "cookingClass", Name: "Sri Lankan Cooking Class", Category: "cultural", PricePerPersonCents: 3500, ChildPriced: true, Duration: "3-4 hours"},
			"kandyDance":           {ID: "kandyDance", Name: "Kandy Cultural Dance Show", Category: "cultural", PricePerPersonCents: 1200, ChildPriced: true, Duration: "1 hour", DestinationID: "kandy"},
			"teaFactory":           {ID: "teaFactory", Name: "Tea Factory Visit", Category: "cultural", PricePerPersonCents: 800, ChildPriced: true, Duration: "1-2 hours", DestinationID: "nuwaraEliya"},
			"ayurvedaSpa":          {ID: "ayurvedaSpa", Name: "Ayurveda Spa Treatment", Category: "wellness", PricePerPersonCents: 6000, Duration: "2-3 hours"},
			"ellaTrainRide":        {ID: "ellaTrainRide", Name: "Scenic Train Ride (Kandy-Ella)", Category: "experience", PricePerPersonCents: 800, ChildPriced: true, Duration: "6-7 hours", DestinationID: "ella"},
			"villageTour":          {ID: "villageTour", Name: "Village Experience", Category: "cultural", PricePerPersonCents: 2500, ChildPriced: true, Duration: "3-4 hours"},
		},
		Services: map[string]AdditionalService{
			"airportPickup":     {ID: "airportPickup", Name: "Airport Pickup (Colombo)", PriceCents: 3500, Description: "Meet & greet with name board, AC vehicle"},
			"airportDropoff":    {ID: "airportDropoff", Name: "Airport Drop-off (Colombo)", PriceCents: 3500, Description: "Drop to airport with sufficient buffer time"},
			"simCard":           {ID: "simCard", Name: "Tourist SIM Card (Dialog/Mobitel)", PriceCents: 1000, Description: "Activated SIM with data package"},
			"guide":             {ID: "guide", Name: "Licensed English Guide", PriceCents: 4500, PerDay: true, Description: "Professional tour guide"},
			"guideMultilingual": {ID: "guideMultilingual", Name: "Multilingual Guide", PriceCents: 5500, PerDay: true, Description: "Guide fluent in multiple languages"},
			"photographer":      {ID: "photographer", Name: "Professional Photographer", PriceCents: 12000, PerDay: true, Description: "Edited photos delivered digitally"},
			"dronePhotography":  {ID: "dronePhotography", Name: "Drone Photography Package", PriceCents: 20000, Description: "Aerial photos & video at key locations"},
			"privateChef":       {ID: "privateChef", Name: "Private Chef (Special Dietary)", PriceCents: 8000, PerDay: true, Description: "For vegan, halal, kosher, or medical diets"},
			"childSeat":         {ID: "childSeat", Name: "Child Car Seat", PriceCents: 500, PerDay: true, Description: "Child seat rental"},
			"wifi":              {ID: "wifi", Name: "Portable WiFi Device", PriceCents: 800, PerDay: true, Description: "Unlimited 4G data, shareable"},
		},
		Seasons: []Season{
			{Name: "peak", Multiplier: 1.20, Ranges: []SeasonRange{
				{StartMonth: time.December, StartDay: 1, EndMonth: time.February, EndDay: 29},
				{StartMonth: time.July, StartDay: 1, EndMonth: time.August, EndDay: 31},
			}},
			{Name: "shoulder", Multiplier: 1.10, Ranges: []SeasonRange{
				{StartMonth: time.March, StartDay: 1, EndMonth: time.April, EndDay: 30},
				{StartMonth: time.November, StartDay: 1, EndMonth: time.November, EndDay: 30},
			}},
			{Name: "green", Multiplier: 1.0, Ranges: []SeasonRange{
				{StartMonth: time.May, StartDay: 1, EndMonth: time.June, EndDay: 30},
				{StartMonth: time.September, StartDay: 1, EndMonth: time.October, EndDay: 31},
			}},
		},
		DiscountRules: []DiscountRule{
			{Name: "Group of 15+", Kind: DiscountGroupSize, Threshold: 15, Percent: 0.10},
			{Name: "Group of 10+", Kind: DiscountGroupSize, Threshold: 10, Percent: 0.08},
			{Name: "Group of 6+", Kind: DiscountGroupSize, Threshold: 6, Percent: 0.05},
			{Name: "Early Bird (60+ days)", Kind: DiscountEarlyBird, Threshold: 60, Percent: 0.05},
			{Name: "Long Stay (14+ days)", Kind: DiscountLongStay, Threshold: 14, Percent: 0.05},
			{Name: "Returning Customer", Kind: DiscountReturning, Percent: 0.05},
		},
		CurrencyRates: map[string]float64{
			"USD": 1,
			"EUR": 0.92,
			"GBP": 0.79,
			"AUD": 1.53,
			"LKR": 325,
		},
		Payment: PaymentTerms{DepositPercent: 0.20, BalanceDueDays: 30},
		Policy: Policy{
			OccupancyPerRoom:  2,
			DefaultLegKm:      50,
			AverageSpeedKmh:   40,
			QuoteValidityDays: 7,
		},
	}
	c.RouteDistances = defaultRouteDistances()
	return c
}

type routeEntry struct {
	from, to string
	km       float64
}

func defaultRouteDistances() map[string]float64 {
	entries := []routeEntry{
		{"colombo", "sigiriya", 170},
		{"colombo", "kandy", 120},
		{"colombo", "galle", 130},
		{"colombo", "yala", 305},
		{"colombo", "ella", 200},
		{"colombo", "trincomalee", 260},
		{"colombo", "jaffna", 400},
		{"colombo", "arugamBay", 320},
		{"colombo", "nuwaraEliya", 180},
		{"colombo", "bentota", 65},
		{"colombo", "mirissa", 150},
		{"colombo", "anuradhapura", 200},
		{"sigiriya", "kandy", 85},
		{"sigiriya", "polonnaruwa", 60},
		{"sigiriya", "anuradhapura", 80},
		{"sigiriya", "dambulla", 20},
		{"sigiriya", "trincomalee", 110},
		{"kandy", "nuwaraEliya", 80},
		{"kandy", "ella", 140},
		{"kandy", "anuradhapura", 140},
		{"nuwaraEliya", "ella", 65},
		{"nuwaraEliya", "yala", 165},
		{"ella", "yala", 100},
		{"ella", "mirissa", 130},
		{"ella", "arugamBay", 130},
		{"galle", "mirissa", 25},
		{"galle", "yala", 175},
		{"mirissa", "yala", 150},
		{"yala", "arugamBay", 140},
		{"anuradhapura", "jaffna", 200},
		{"anuradhapura", "trincomalee", 110},
		{"trincomalee", "arugamBay", 180},
	}
	out := make(map[string]float64, len(entries))
	for _, e := range entries {
		out[routeKey(e.from, e.to)] = e.km
	}
	return out
}
