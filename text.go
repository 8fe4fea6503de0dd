package main

var (
	AppUsage = `Backend for the ezzio.me portfolio: serves the SPA shell, rewrites its
	social-preview meta tags for blog posts, and renders the decorative
	background simulations.`

	ServeUsage = `Run the HTTP server. Configuration comes from the environment and an
	optional .env file in the working directory.`

	InjectUsage = `Rewrite a local HTML shell for one post and print the result, the same
	way the server answers a crawler asking for /?post=<slug>.`

	SimulateUsage = `Run the ornament, snow and starfield simulations for a number of ticks
	and write the final frame as SVG.`
)
