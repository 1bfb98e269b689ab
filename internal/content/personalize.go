// Package content maps a classified property and order preferences to the
// narrative fragments used by the email templates. Everything here is a
// pure lookup; no I/O.
package content

import (
	"fmt"
	"strings"

	"listingrelay/internal/types"
)

// OrderBundle is the personalized narrative for the order-confirmation
// email.
type OrderBundle struct {
	Greeting     string
	ValueProp    string
	Process      string
	LocationNote string
	ServiceNotes []string
}

// CompletionBundle is the personalized narrative for the completion-notice
// email.
type CompletionBundle struct {
	Greeting     string
	Description  string
	MarketingTip string
}

// ForOrder selects the narrative bundle for a new order. The property type
// picks one of five fixed voices; unknown types read as residential homes.
func ForOrder(customerName string, info types.PropertyInfo, order types.OrderDetails) OrderBundle {
	var b OrderBundle
	at := locationSuffix(info.Location)

	switch info.Type {
	case types.PropertyLuxuryHome:
		b = OrderBundle{
			Greeting:     fmt.Sprintf("Dear %s, thank you for choosing Voila for your luxury property showcase.", customerName),
			ValueProp:    "Our premium video production will capture the elegance and sophistication that makes your property truly exceptional.",
			Process:      "Our experienced team specializes in luxury real estate videography, ensuring every detail reflects the premium nature of your property.",
			LocationNote: fmt.Sprintf("The prestigious location%s will be beautifully highlighted in your video.", at),
		}
	case types.PropertyCommercial:
		b = OrderBundle{
			Greeting:     fmt.Sprintf("Hello %s, we're excited to help showcase your commercial property.", customerName),
			ValueProp:    "Our professional video will highlight the key features and potential of your commercial space to attract the right tenants or buyers.",
			Process:      "We understand the unique requirements of commercial real estate marketing and will create content that speaks to your target audience.",
			LocationNote: fmt.Sprintf("The strategic location%s will be emphasized to showcase accessibility and business potential.", at),
		}
	case types.PropertyCondominium:
		b = OrderBundle{
			Greeting:     fmt.Sprintf("Hi %s, thank you for selecting Voila for your condominium video.", customerName),
			ValueProp:    "We'll create an engaging video that showcases both your unit's unique features and the building's amenities.",
			Process:      "Our team knows how to highlight what makes condominium living special, from unit layouts to community features.",
			LocationNote: fmt.Sprintf("The convenient location%s and building amenities will be featured prominently.", at),
		}
	case types.PropertyTownhouse:
		b = OrderBundle{
			Greeting:     fmt.Sprintf("Dear %s, we're thrilled to create a video for your townhouse.", customerName),
			ValueProp:    "Our video will capture the perfect balance of privacy and community that makes townhouse living so appealing.",
			Process:      "We'll showcase both the interior charm and exterior appeal of your townhouse property.",
			LocationNote: fmt.Sprintf("The neighborhood setting%s will beautifully complement your property's appeal.", at),
		}
	case types.PropertyResidentialHome, types.PropertyApartment:
		b = residentialOrderBundle(customerName, at)
	default:
		b = residentialOrderBundle(customerName, at)
	}

	b.ServiceNotes = serviceNotes(order.MusicType, order.Voiceover, info.Features)
	return b
}

func residentialOrderBundle(customerName, at string) OrderBundle {
	return OrderBundle{
		Greeting:     fmt.Sprintf("Hello %s, thank you for trusting Voila with your home's video.", customerName),
		ValueProp:    "We'll create a warm, inviting video that helps potential buyers envision themselves living in your beautiful home.",
		Process:      "Our team specializes in capturing the unique character and lifestyle that your home offers.",
		LocationNote: fmt.Sprintf("The wonderful location%s will add to your home's appeal in the video.", at),
	}
}

// serviceNotes builds the preference-driven notes in fixed display order:
// voiceover, then music, then highlighted features.
func serviceNotes(musicType string, voiceover bool, features []string) []string {
	notes := []string{}

	if voiceover {
		notes = append(notes, "Professional voiceover narration will guide viewers through your property's best features.")
	}

	if musicType != "" && musicType != types.DefaultMusicType {
		notes = append(notes, fmt.Sprintf("Your selected %s music style will create the perfect atmosphere for your video.", strings.ToLower(musicType)))
	} else if musicType == types.DefaultMusicType {
		notes = append(notes, "Our AI will select the perfect music to complement your property's style and target audience.")
	}

	if len(features) > 0 {
		notes = append(notes, fmt.Sprintf("We'll highlight key features including %s to maximize buyer interest.", strings.Join(topFeatures(features, 3), ", ")))
	}

	return notes
}

// ForCompletion selects the celebration narrative for the completion
// notice.
func ForCompletion(customerName string, propertyType types.PropertyType) CompletionBundle {
	switch propertyType {
	case types.PropertyLuxuryHome:
		return CompletionBundle{
			Greeting:     fmt.Sprintf("🎉 Congratulations %s! Your luxury property video is ready to showcase the elegance and sophistication of your estate.", customerName),
			Description:  "We've captured every premium detail and architectural element that makes your property truly exceptional.",
			MarketingTip: "This professional video will attract discerning buyers who appreciate luxury and quality.",
		}
	case types.PropertyCommercial:
		return CompletionBundle{
			Greeting:     fmt.Sprintf("🏢 Excellent news %s! Your commercial property video is ready to attract the right tenants and buyers.", customerName),
			Description:  "We've highlighted the key business advantages and potential of your commercial space.",
			MarketingTip: "Use this video to showcase accessibility, foot traffic, and business opportunities to potential clients.",
		}
	case types.PropertyCondominium:
		return CompletionBundle{
			Greeting:     fmt.Sprintf("🏙️ Great news %s! Your condominium video beautifully showcases both your unit and building amenities.", customerName),
			Description:  "We've captured the perfect balance of personal space and community living that makes condo life so appealing.",
			MarketingTip: "This video will help buyers envision the convenient, modern lifestyle your condo offers.",
		}
	case types.PropertyTownhouse:
		return CompletionBundle{
			Greeting:     fmt.Sprintf("🏘️ Wonderful news %s! Your townhouse video perfectly captures the charm and community appeal of your property.", customerName),
			Description:  "We've showcased both the interior comfort and the neighborhood setting that makes townhouse living special.",
			MarketingTip: "This video highlights the perfect balance of privacy and community that buyers are looking for.",
		}
	case types.PropertyResidentialHome, types.PropertyApartment:
		return residentialCompletionBundle(customerName)
	default:
		return residentialCompletionBundle(customerName)
	}
}

func residentialCompletionBundle(customerName string) CompletionBundle {
	return CompletionBundle{
		Greeting:     fmt.Sprintf("🏡 Fantastic news %s! Your home video is ready to help buyers fall in love with your property.", customerName),
		Description:  "We've created a warm, inviting showcase that captures the unique character and lifestyle your home offers.",
		MarketingTip: "This video will help potential buyers envision themselves creating memories in your beautiful home.",
	}
}

// ProductionNote returns the internal production guidance shown in the
// admin notification for each property type.
func ProductionNote(propertyType types.PropertyType) string {
	switch propertyType {
	case types.PropertyLuxuryHome:
		return "Focus on premium finishes, architectural details, and lifestyle elements. Consider drone shots for exterior views."
	case types.PropertyCommercial:
		return "Highlight accessibility, parking, foot traffic, and business potential. Include neighborhood context."
	case types.PropertyCondominium:
		return "Showcase unit features and building amenities. Include common areas and location benefits."
	case types.PropertyTownhouse:
		return "Balance interior charm with exterior appeal. Show privacy and community aspects."
	case types.PropertyResidentialHome, types.PropertyApartment:
		return residentialProductionNote
	default:
		return residentialProductionNote
	}
}

const residentialProductionNote = "Create warm, inviting atmosphere. Focus on family lifestyle and neighborhood appeal."

// VideoFeatureNotes summarizes what the finished video includes, for the
// completion notice. Order: music, voiceover, highlighted features.
func VideoFeatureNotes(musicType string, voiceover bool, features []string) []string {
	notes := []string{}

	if musicType != "" && musicType != types.DefaultMusicType {
		notes = append(notes, fmt.Sprintf("🎵 %s music soundtrack", musicType))
	}
	if voiceover {
		notes = append(notes, "🎙️ Professional voiceover narration")
	}
	if len(features) > 0 {
		notes = append(notes, fmt.Sprintf("🏠 Highlighted features: %s", strings.Join(topFeatures(features, 3), ", ")))
	}

	return notes
}

func topFeatures(features []string, n int) []string {
	if len(features) > n {
		return features[:n]
	}
	return features
}

func locationSuffix(location string) string {
	if location == "" {
		return ""
	}
	return " at " + location
}
