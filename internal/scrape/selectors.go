package scrape

// LinkedIn serves several generations of its markup depending on login state
// and A/B bucket, so every field carries an ordered fallback list. The first
// selector with non-empty text wins; selectors earlier in the list match the
// logged-in desktop layout.

var jobTitleSelectors = []string{
	".top-card-layout__title",
	".job-details-jobs-unified-top-card__job-title",
	"h1.t-24",
	"h1",
}

var jobCompanySelectors = []string{
	".topcard__org-name-link",
	".job-details-jobs-unified-top-card__company-name",
	".topcard__flavor a",
}

var jobLocationSelectors = []string{
	".topcard__flavor--bullet",
	".job-details-jobs-unified-top-card__bullet",
	".jobs-unified-top-card__primary-description span.tvm__text",
}

var jobDescriptionSelectors = []string{
	".description__text",
	".jobs-description__content",
	".show-more-less-html__markup",
}

var jobPostedDateSelectors = []string{
	".posted-time-ago__text",
	".jobs-unified-top-card__posted-date",
}

var companyNameSelectors = []string{
	".org-top-card-summary__title",
	"h1.top-card-layout__title",
	"h1",
}

var companyDescriptionSelectors = []string{
	".org-about-us-organization-description__text",
	"p.break-words",
	".core-section-container__content p",
}
