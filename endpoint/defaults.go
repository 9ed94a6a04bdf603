package endpoint

const stagingBaseURL = "https://staging.webhook.api.mavapay.co/webhook/"

// Defaults returns the endpoint set installed when no persisted state can be loaded
func Defaults() []Endpoint {
	return []Endpoint{
		{ID: "fincra", URL: stagingBaseURL + "fincra", Name: "Fincra Staging", Active: true},
		{ID: "splice", URL: stagingBaseURL + "splice", Name: "Splice Staging", Active: true},
		{ID: "useorange", URL: stagingBaseURL + "useorange", Name: "UseOrange Staging", Active: true},
		{ID: "galoy", URL: stagingBaseURL + "galoy", Name: "Galoy Staging", Active: true},
	}
}
