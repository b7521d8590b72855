package http

const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Chia WalletConnect</title>
<style>
body { font-family: sans-serif; max-width: 720px; margin: 2em auto; }
fieldset { margin-bottom: 1.5em; }
label { display: block; margin: .5em 0; }
input, textarea { width: 100%; box-sizing: border-box; }
pre { background: #f4f4f4; padding: 1em; white-space: pre-wrap; word-break: break-all; }
</style>
</head>
<body>
<h1>Chia WalletConnect</h1>
<section id="session">
{{if .Session.Connected}}
  <p>Connected to {{.Session.Wallet}} on {{.Session.ChainID}} (topic {{.Session.Topic}})</p>
  {{range .Session.Accounts}}<p><code>{{.}}</code></p>{{end}}
  <form data-action="/api/session/disconnect"><button>Disconnect</button></form>
{{else if .Session.Transport}}
  {{if .Session.PairingURI}}
  <p>Scan with your wallet or paste the URI:</p>
  <img src="/api/session/qr.png" alt="pairing qr code" width="256" height="256">
  <pre>{{.Session.PairingURI}}</pre>
  {{end}}
  <form data-action="/api/session/connect"><button>Connect Wallet</button></form>
{{else}}
  <p>Sign client unavailable.</p>
{{end}}
</section>
<pre id="response"></pre>
{{range .Methods}}
<form data-action="/api/rpc/{{.Method}}">
<fieldset>
<legend>{{.Method}}</legend>
{{range .Fields}}
<label>{{.Label}}
{{if and (eq .Kind "json") .Required}}<textarea name="{{.Name}}" rows="3" required></textarea>
{{else if eq .Kind "json"}}<textarea name="{{.Name}}" rows="3"></textarea>
{{else if and (eq .Kind "number") .Required}}<input name="{{.Name}}" type="number" min="0" step="any" required>
{{else if eq .Kind "number"}}<input name="{{.Name}}" type="number" min="0" step="any" value="0">
{{else if .Required}}<input name="{{.Name}}" type="text" required>
{{else}}<input name="{{.Name}}" type="text">{{end}}
</label>
{{end}}
<button>{{.Title}}</button>
</fieldset>
</form>
{{end}}
<script>
document.querySelectorAll("form[data-action]").forEach(function (form) {
  form.addEventListener("submit", function (e) {
    e.preventDefault();
    fetch(form.dataset.action, { method: "POST", body: new URLSearchParams(new FormData(form)) })
      .then(function (r) { return r.json(); })
      .then(function (data) {
        document.getElementById("response").textContent = JSON.stringify(data.result !== undefined ? data.result : data, null, 2);
        if (form.dataset.action.indexOf("/api/session/") === 0) { location.reload(); }
      });
  });
});
</script>
</body>
</html>
`
