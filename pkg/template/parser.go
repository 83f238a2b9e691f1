// parser.go: Sample catalog and scene files for photocanvas init.
package template

// ExampleJSON returns a sample templates.json and scene.json.
func ExampleJSON() (catalogJSON, sceneJSON string) {
	catalogJSON = `{
  "meta": {
    "name": "Sample Templates",
    "version": "1.0",
    "author": "PhotoCanvas",
    "description": "Extra layouts loaded next to the built-in ones"
  },
  "templates": [
    {
      "id": "triptych",
      "name": "Triptych",
      "description": "Three tall panels side by side.",
      "aspectRatio": 0.5,
      "slots": [
        { "x": 0, "y": 0, "w": 0.3333333333, "h": 1 },
        { "x": 0.3333333333, "y": 0, "w": 0.3333333334, "h": 1 },
        { "x": 0.6666666667, "y": 0, "w": 0.3333333333, "h": 1 }
      ]
    },
    {
      "id": "banner-two",
      "name": "Banner + Pair",
      "description": "Wide banner above two square frames.",
      "aspectRatio": 1,
      "slots": [
        { "x": 0, "y": 0, "w": 1, "h": 0.5 },
        { "x": 0, "y": 0.5, "w": 0.5, "h": 0.5 },
        { "x": 0.5, "y": 0.5, "w": 0.5, "h": 0.5 }
      ]
    }
  ]
}`

	sceneJSON = `{
  "template": "grid-4",
  "canvas": {
    "width": 1200,
    "background": "#ffffff",
    "margin": 12,
    "radius": 16
  },
  "slots": [
    { "image": "photos/first.jpg" },
    { "image": "photos/second.jpg", "zoom": 1.4 },
    { "image": "photos/third.jpg", "rotation": -8, "offsetX": 24 },
    { }
  ]
}`
	return
}
