package config

// SampleConfig returns a documented configuration file
func SampleConfig() string {
	return `# constellog configuration
version: "1.0"

data:
  # Directory holding <Place>_<Model>.log files
  log_dir: ./paper_results
  # Short-constellation supplements (<Place>_<Model>_Short.log), relative to log_dir
  short_dir: ShortConst
  # Every place is combined with every model unless runs is set
  places: [Africa, Europe]
  models: [Mesh, Extreme]
  # runs:
  #   - {place: Greenland, model: Mesh}
  #   - {place: Global, model: Mesh_NBIoT}

output:
  default_format: text   # text|json|markdown|csv
  color_mode: auto       # auto|always|never
  verbose: false
  no_emoji: false
  output_dir: ./paper_results/charts
  export_format: json    # json|csv|msgpack

analysis:
  timeout: 60s
  max_lines: 1000000
  # Contact-gap threshold (minutes) each model was searched with
  thresholds:
    Mesh_60: 60
    Mesh: 120
    Mesh_NBIoT: 183
`
}

// MinimalSampleConfig returns a configuration with only the essentials
func MinimalSampleConfig() string {
	return `version: "1.0"
data:
  log_dir: ./paper_results
  places: [Africa, Europe]
  models: [Mesh, Extreme]
output:
  default_format: text
`
}
