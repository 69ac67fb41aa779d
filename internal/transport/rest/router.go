package rest

import "net/http"

// Handlers groups every REST handler mounted by the router.
type Handlers struct {
	Health    *HealthHandler
	Polls     *PollHandler
	Events    *EventHandler
	Jobs      *JobHandler
	Green     *GreenHandler
	Directory *DirectoryHandler
	Problems  *ProblemHandler
	Food      *FoodHandler
	LostFound *LostFoundHandler
	Pickups   *PickupHandler
	Community *CommunityHandler
}

// NewRouter mounts all REST routes on a ServeMux.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /livez", h.Health.Live)
	mux.HandleFunc("GET /readyz", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.HandleFunc("GET /api/polls", h.Polls.List)
	mux.HandleFunc("POST /api/polls", h.Polls.Create)
	mux.HandleFunc("GET /api/polls/{id}", h.Polls.Results)
	mux.HandleFunc("POST /api/polls/{id}/vote", h.Polls.Vote)

	mux.HandleFunc("GET /api/events", h.Events.List)
	mux.HandleFunc("POST /api/events", h.Events.Create)
	mux.HandleFunc("GET /api/events/{id}", h.Events.Get)
	mux.HandleFunc("POST /api/events/{id}/rsvp", h.Events.RSVP)
	mux.HandleFunc("POST /api/events/{id}/volunteer", h.Events.Volunteer)
	mux.HandleFunc("GET /api/events/{id}/comments", h.Events.ListComments)
	mux.HandleFunc("POST /api/events/{id}/comments", h.Events.AddComment)

	// /api/jobs/saved wins over /api/jobs/{id} by mux specificity.
	mux.HandleFunc("GET /api/jobs", h.Jobs.List)
	mux.HandleFunc("POST /api/jobs", h.Jobs.Create)
	mux.HandleFunc("GET /api/jobs/saved", h.Jobs.ListSaved)
	mux.HandleFunc("GET /api/jobs/{id}", h.Jobs.Get)
	mux.HandleFunc("POST /api/jobs/{id}/save", h.Jobs.ToggleSave)
	mux.HandleFunc("POST /api/jobs/{id}/apply", h.Jobs.Apply)

	mux.HandleFunc("GET /api/drives", h.Green.ListDrives)
	mux.HandleFunc("GET /api/drives/{id}", h.Green.GetDrive)
	mux.HandleFunc("POST /api/drives/{id}/register", h.Green.Register)
	mux.HandleFunc("GET /api/campaigns", h.Green.ListCampaigns)

	mux.HandleFunc("GET /api/medical-centers", h.Directory.ListMedicalCenters)
	mux.HandleFunc("GET /api/medical-centers/{id}", h.Directory.GetMedicalCenter)
	mux.HandleFunc("GET /api/kitchens", h.Directory.ListKitchens)
	mux.HandleFunc("POST /api/kitchens/{id}/volunteer", h.Directory.VolunteerKitchen)
	mux.HandleFunc("GET /api/emergency-contacts", h.Directory.ListEmergencyContacts)
	mux.HandleFunc("GET /api/medicines", h.Directory.SearchMedicines)

	mux.HandleFunc("GET /api/problems", h.Problems.List)
	mux.HandleFunc("POST /api/problems", h.Problems.Report)
	mux.HandleFunc("GET /api/problems/{id}", h.Problems.Get)
	mux.HandleFunc("POST /api/problems/{id}/upvote", h.Problems.Upvote)
	mux.HandleFunc("POST /api/problems/{id}/resolve", h.Problems.Resolve)

	mux.HandleFunc("GET /api/food/donations", h.Food.ListDonations)
	mux.HandleFunc("POST /api/food/donations", h.Food.Donate)
	mux.HandleFunc("POST /api/food/donations/{id}/claim", h.Food.Claim)
	mux.HandleFunc("POST /api/food/donations/{id}/collect", h.Food.Collect)
	mux.HandleFunc("GET /api/food/requests", h.Food.ListRequests)
	mux.HandleFunc("POST /api/food/requests", h.Food.CreateRequest)

	mux.HandleFunc("GET /api/lost-found", h.LostFound.List)
	mux.HandleFunc("POST /api/lost-found", h.LostFound.Post)
	mux.HandleFunc("POST /api/lost-found/{id}/resolve", h.LostFound.Resolve)

	mux.HandleFunc("GET /api/pickups", h.Pickups.ListMine)
	mux.HandleFunc("POST /api/pickups", h.Pickups.Schedule)
	mux.HandleFunc("POST /api/pickups/{id}/cancel", h.Pickups.Cancel)

	mux.HandleFunc("GET /api/leaderboard", h.Community.Leaderboard)
	mux.HandleFunc("GET /api/me", h.Community.MyProfile)
	mux.HandleFunc("GET /api/me/points", h.Community.MyPoints)
	mux.HandleFunc("GET /api/stats", h.Community.Stats)

	return mux
}
