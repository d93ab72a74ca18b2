package prompts

import (
	"fmt"
	"strings"
)

const designInstructionTemplate = `You are an expert interior designer AI. A user has uploaded a photo of their room and wants a redesign in a specific style. Your role is to be inspiring and practical, avoiding complex jargon.

The user's requested style is: "%s".

Analyze the room from the image and provide design suggestions based on the requested style. Output must be a clear, structured JSON object that adheres to the provided schema.`

const redesignTemplate = "A photo of a room redesigned in a %s style."

const renderTemplate = "Generate a photorealistic image of a room based on this description: %s. The image should look professionally designed and well-lit."

// DesignInstruction is the text sent next to the room photo when asking for design ideas.
func DesignInstruction(style string) string {
	return fmt.Sprintf(designInstructionTemplate, strings.TrimSpace(style))
}

// RedesignPrompt describes the target room for the image model.
func RedesignPrompt(style string) string {
	return fmt.Sprintf(redesignTemplate, strings.TrimSpace(style))
}

// RenderPrompt adds the photorealism and lighting directive to a room description.
func RenderPrompt(description string) string {
	return fmt.Sprintf(renderTemplate, strings.TrimSuffix(strings.TrimSpace(description), "."))
}
