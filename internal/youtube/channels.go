package youtube

import "tldw-backend/internal/models"

// DefaultChannels are the channels the trending snapshot samples from.
var DefaultChannels = []models.Channel{
	{ID: "UCBJycsmduvYEL83R_U4JriQ", Name: "Marques Brownlee"},
	{ID: "UCl2mFZoRqjw_ELax4Yisf6w", Name: "Louis Rossmann"},
	{ID: "UCXuqSBlHAE6Xw-yeJA0Tunw", Name: "Linus Tech Tips"},
	{ID: "UCHnyfMqiRRG1u-2MsSQLbXA", Name: "Veritasium"},
	{ID: "UCsXVk37bltHxD1rDPwtNM8Q", Name: "Kurzgesagt"},
	{ID: "UCoOae5nYA7VqaXzerajD0lg", Name: "Ali Abdaal"},
	{ID: "UCkCGANrihzExmu9QiqZpPlQ", Name: "How Money Works"},
	{ID: "UC4QZ_LsYcvcq7qOsOhpAX4A", Name: "ColdFusion"},
	{ID: "UC9RM-iSvTu1uPJb8X5yp3EQ", Name: "Wendover Productions"},
	{ID: "UCP5tjEmvPItGyLhmjdwP7Ww", Name: "RealLifeLore"},
	{ID: "UCHYoe8kQ-7Gn9ASOlmI0k6Q", Name: "The Food Theorists"},
}
