// Package events holds the event directory: where events come from, and how
// they are searched and filtered in memory.
package events

import (
	"context"

	"github.com/mynextid/zk-agegate/models"
)

// Provider is the abstract event data source
type Provider interface {
	List(ctx context.Context) ([]models.Event, error)
}

// StaticProvider serves a fixed list
type StaticProvider struct {
	Events []models.Event
}

// NewStaticProvider serves the built-in event list
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{Events: builtinEvents()}
}

func (p *StaticProvider) List(_ context.Context) ([]models.Event, error) {
	out := make([]models.Event, len(p.Events))
	copy(out, p.Events)
	return out, nil
}

func builtinEvents() []models.Event {
	return []models.Event{
		{
			ID:           1,
			Title:        "DeFi Summit 2024",
			Description:  "Join leading DeFi protocols and learn about the future of decentralized finance. Network with industry leaders and discover new opportunities.",
			Date:         "2024-02-15",
			Time:         "10:00 AM",
			Location:     "San Francisco, CA",
			Country:      "United States",
			Attendees:    245,
			MaxAttendees: 500,
			Category:     "DeFi",
			Price:        "Free",
			Organizer:    "DeFi Alliance",
			Image:        "/placeholder.svg?height=200&width=400",
			Featured:     true,
			Rating:       4.8,
		},
		{
			ID:           2,
			Title:        "NFT Art Gallery Opening",
			Description:  "Exclusive NFT art exhibition featuring top digital artists from around the world. Experience the future of digital art.",
			Date:         "2024-02-20",
			Time:         "6:00 PM",
			Location:     "New York, NY",
			Country:      "United States",
			Attendees:    89,
			MaxAttendees: 150,
			Category:     "NFT",
			Price:        "Free",
			Organizer:    "CryptoArt Collective",
			Image:        "/placeholder.svg?height=200&width=400",
			Rating:       4.6,
		},
		{
			ID:           3,
			Title:        "Blockchain Developer Workshop",
			Description:  "Hands-on workshop for building dApps on Ethereum. Learn from experienced developers and build your first dApp.",
			Date:         "2024-02-25",
			Time:         "2:00 PM",
			Location:     "Austin, TX",
			Country:      "United States",
			Attendees:    156,
			MaxAttendees: 200,
			Category:     "Development",
			Price:        "$50",
			Organizer:    "Web3 Builders",
			Image:        "/placeholder.svg?height=200&width=400",
			Featured:     true,
			Rating:       4.9,
		},
		{
			ID:           4,
			Title:        "Metaverse Gaming Conference",
			Description:  "Explore the future of gaming in virtual worlds. Meet game developers, investors, and players shaping the metaverse.",
			Date:         "2024-03-01",
			Time:         "11:00 AM",
			Location:     "Los Angeles, CA",
			Country:      "United States",
			Attendees:    312,
			MaxAttendees: 400,
			Category:     "Gaming",
			Price:        "$75",
			Organizer:    "MetaGame Studios",
			Image:        "/placeholder.svg?height=200&width=400",
			Rating:       4.7,
		},
		{
			ID:           5,
			Title:        "Web3 Startup Pitch Day",
			Description:  "Watch innovative Web3 startups pitch to top VCs. Network with entrepreneurs and investors in the Web3 space.",
			Date:         "2024-03-05",
			Time:         "1:00 PM",
			Location:     "Miami, FL",
			Country:      "United States",
			Attendees:    78,
			MaxAttendees: 100,
			Category:     "Startup",
			Price:        "Free",
			Organizer:    "Crypto Ventures",
			Image:        "/placeholder.svg?height=200&width=400",
			Featured:     true,
			Rating:       4.5,
		},
		{
			ID:           6,
			Title:        "DAO Governance Workshop",
			Description:  "Learn about decentralized governance and how to participate in DAO decision-making processes.",
			Date:         "2024-03-10",
			Time:         "3:00 PM",
			Location:     "Denver, CO",
			Country:      "United States",
			Attendees:    67,
			MaxAttendees: 120,
			Category:     "DAO",
			Price:        "$30",
			Organizer:    "DAO Collective",
			Image:        "/placeholder.svg?height=200&width=400",
			Rating:       4.4,
		},
	}
}
